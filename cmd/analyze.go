package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spigell/profile-analyzer/internal/analysis"
	applog "github.com/spigell/profile-analyzer/internal/logger"
	"github.com/spigell/profile-analyzer/internal/profile"
	"github.com/spigell/profile-analyzer/internal/session"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptAnotherProfile = "Analyze another profile"
	PromptExit           = "Exit"
)

var errExit = errors.New("exit requested")

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a profile interactively",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("url", "u", "", "profile url to analyze first")
	analyzeCmd.Flags().StringP("category", "c", "", "print one category for --url and exit")
}

// loader is the part of a session the interactive loop uses.
type loader interface {
	Load(ctx context.Context, profileURL string) (*analysis.Cache, error)
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := applog.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	rawConfig, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	config := normalize(rawConfig)

	logger.Info("starting the profile-analyzer", zap.String("version", version))

	if logger.Core().Enabled(zap.DebugLevel) {
		// secrets are not part of the dump
		pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
		logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))
	}

	opts, missing, err := resolveOptions(config)
	if len(missing) > 0 {
		logger.Warn("please enter all required information",
			zap.Strings("missing", missing),
			zap.Error(err),
			zap.String("hint", "set them in the environment, the dotenv file or use the *_FILE variants"),
		)
		return
	}
	if err != nil {
		logger.Fatal("validating configuration", zap.Error(err))
	}

	completer, err := buildCompleter(ctx, config, opts, logger)
	if err != nil {
		logger.Fatal("creating a completion client", zap.Error(err))
	}
	completionLogger := applog.WithCompletionFields(logger, config.Completion.Provider, completer.Model())
	completionLogger.Info("completion client ready")

	s := session.New(session.Deps{
		Providers: buildProviders(config, opts, logger),
		Pipeline:  analysis.NewPipeline(completer, completionLogger),
		Logger:    logger,
	})

	profileURL, _ := cmd.Flags().GetString("url")
	category, _ := cmd.Flags().GetString("category")

	if category != "" {
		if err := printCategory(ctx, s, profileURL, category, os.Stdout); err != nil {
			logger.Error("analyzing profile", zap.String("url", profileURL), zap.Error(err))
		}
		return
	}

	for {
		if profileURL == "" {
			profileURL, err = askURL()
			if err != nil {
				logger.Info("exiting", zap.Error(err))
				return
			}
		}

		cache, err := s.Load(ctx, profileURL)
		if err != nil {
			logger.Error("analyzing profile", zap.String("url", profileURL), zap.Error(err))
			profileURL = ""
			continue
		}

		err = browse(cache, os.Stdout)
		profileURL = ""
		if errors.Is(err, errExit) {
			logger.Info("exiting", zap.String("reason", "requested by user"))
			return
		}
		if err != nil {
			logger.Error("showing analysis", zap.Error(err))
			return
		}
	}
}

// printCategory is the non-interactive path: load once and print one result.
func printCategory(ctx context.Context, l loader, profileURL, name string, out io.Writer) error {
	category, ok := analysis.ParseCategory(name)
	if !ok {
		return fmt.Errorf("unknown category %q, expected one of: %s", name, categoryList())
	}
	if profileURL == "" {
		return fmt.Errorf("--url is required with --category: %w", profile.ErrProfileRetrieval)
	}

	cache, err := l.Load(ctx, profileURL)
	if err != nil {
		return err
	}

	render(out, category, cache)
	return nil
}

func askURL() (string, error) {
	prompt := promptui.Prompt{
		Label: "Profile URL",
		Validate: func(input string) error {
			_, err := profile.IdentifierFromURL(strings.TrimSpace(input))
			return err
		},
	}

	url, err := prompt.Run()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(url), nil
}

// browse lets the user pick categories until they ask for another profile or exit.
func browse(cache *analysis.Cache, out io.Writer) error {
	items := menuItems(cache)

	for {
		prompt := promptui.Select{
			Label: "Choose analysis",
			Items: items,
			Size:  len(items),
		}

		_, choice, err := prompt.Run()
		if err != nil {
			return errors.Join(errExit, err)
		}

		switch choice {
		case PromptAnotherProfile:
			return nil
		case PromptExit:
			return errExit
		}

		if category, ok := analysis.ParseCategory(choice); ok {
			render(out, category, cache)
		}
	}
}

func menuItems(cache *analysis.Cache) []string {
	categories := cache.Categories()
	items := make([]string, 0, len(categories)+2)
	for _, c := range categories {
		items = append(items, string(c))
	}
	return append(items, PromptAnotherProfile, PromptExit)
}

func render(out io.Writer, category analysis.Category, cache *analysis.Cache) {
	fmt.Fprintf(out, "\n%s Analysis\n\n%s\n\n", category, cache.Get(category))
}

func categoryList() string {
	names := make([]string, 0, len(analysis.Categories()))
	for _, c := range analysis.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func redacted(config *Config) Config {
	c := *config
	c.SessionCookie = mask(c.SessionCookie)

	if c.Primary != nil {
		p := *c.Primary
		p.Password = mask(p.Password)
		c.Primary = &p
	}
	if c.Backup != nil {
		b := *c.Backup
		b.Password = mask(b.Password)
		c.Backup = &b
	}
	if c.Completion != nil {
		cc := *c.Completion
		cc.APIKey = mask(cc.APIKey)
		c.Completion = &cc
	}

	return c
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
