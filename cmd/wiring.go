package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/profile-analyzer/internal/ai"
	"github.com/spigell/profile-analyzer/internal/ai/gemini"
	"github.com/spigell/profile-analyzer/internal/ai/groq"
	"github.com/spigell/profile-analyzer/internal/linkedin"
	applog "github.com/spigell/profile-analyzer/internal/logger"
	"github.com/spigell/profile-analyzer/internal/profile"
	"github.com/spigell/profile-analyzer/internal/scraper"
	"github.com/spigell/profile-analyzer/internal/secrets"

	"go.uber.org/zap"
)

const (
	optCompletionKey   = "COMPLETION_API_KEY"
	optPrimaryUsername = "PRIMARY_USERNAME"
	optPrimaryPassword = "PRIMARY_PASSWORD"
	optBackupUsername  = "BACKUP_USERNAME"
	optBackupPassword  = "BACKUP_PASSWORD"
	optSessionCookie   = "SESSION_COOKIE"
)

// options holds resolved secrets keyed by their environment names.
type options map[string]string

func normalize(config *Config) *Config {
	if config == nil {
		config = &Config{}
	}
	if config.Primary == nil {
		config.Primary = &CredentialConfig{}
	}
	if config.Backup == nil {
		config.Backup = &CredentialConfig{}
	}
	if config.Browser == nil {
		config.Browser = &BrowserConfig{}
	}
	if config.Completion == nil {
		config.Completion = &CompletionConfig{}
	}

	config.Source = strings.ToLower(strings.TrimSpace(config.Source))
	if config.Source == "" {
		config.Source = SourceCredentials
	}

	config.Completion.Provider = strings.ToLower(strings.TrimSpace(config.Completion.Provider))
	if config.Completion.Provider == "" {
		config.Completion.Provider = ProviderGroq
	}

	return config
}

// resolveOptions loads every required option for the configured source. The
// names of missing options are returned with the reasons they could not be
// loaded so the caller can warn about them.
func resolveOptions(config *Config) (options, []string, error) {
	switch config.Source {
	case SourceCredentials, SourceCookie, SourceBrowser:
	default:
		return nil, nil, fmt.Errorf("unsupported profile source: %s", config.Source)
	}

	switch config.Completion.Provider {
	case ProviderGroq, ProviderGemini:
	default:
		return nil, nil, fmt.Errorf("unsupported completion provider: %s", config.Completion.Provider)
	}

	required := []secrets.Source{{
		Name:  optCompletionKey,
		Value: config.Completion.APIKey,
		File:  config.Completion.APIKeyFile,
	}}

	if config.Source == SourceCredentials {
		required = append(required,
			secrets.Source{Name: optPrimaryUsername, Value: config.Primary.Username},
			secrets.Source{Name: optPrimaryPassword, Value: config.Primary.Password, File: config.Primary.PasswordFile},
		)
	} else {
		required = append(required, secrets.Source{
			Name:  optSessionCookie,
			Value: config.SessionCookie,
			File:  config.SessionCookieFile,
		})
	}

	values, missing, err := secrets.LoadAll(required...)
	if len(missing) > 0 {
		return nil, missing, err
	}

	// Backup credentials are optional, but only usable as a complete pair.
	if config.Source == SourceCredentials && strings.TrimSpace(config.Backup.Username) != "" {
		backup, missingBackup, err := secrets.LoadAll(
			secrets.Source{Name: optBackupUsername, Value: config.Backup.Username},
			secrets.Source{Name: optBackupPassword, Value: config.Backup.Password, File: config.Backup.PasswordFile},
		)
		if len(missingBackup) > 0 {
			return nil, missingBackup, err
		}
		for k, v := range backup {
			values[k] = v
		}
	}

	return options(values), nil, nil
}

// buildProviders returns the profile providers in the order they are tried.
func buildProviders(config *Config, opts options, logger *zap.Logger) []profile.Provider {
	logger = applog.WithSource(logger, config.Source)

	switch config.Source {
	case SourceCookie:
		return []profile.Provider{&linkedin.CookieProvider{
			Cookie:    opts[optSessionCookie],
			Logger:    logger,
			UserAgent: config.UserAgent,
		}}
	case SourceBrowser:
		return []profile.Provider{&scraper.Provider{
			ExecPath: config.Browser.Path,
			Cookie:   opts[optSessionCookie],
			Logger:   logger,
		}}
	}

	providers := []profile.Provider{&linkedin.CredentialProvider{
		Label:     "primary credentials",
		Username:  opts[optPrimaryUsername],
		Password:  opts[optPrimaryPassword],
		Logger:    logger,
		UserAgent: config.UserAgent,
	}}

	if opts[optBackupUsername] != "" {
		providers = append(providers, &linkedin.CredentialProvider{
			Label:     "backup credentials",
			Username:  opts[optBackupUsername],
			Password:  opts[optBackupPassword],
			Logger:    logger,
			UserAgent: config.UserAgent,
		})
	}

	return providers
}

type modelCompleter interface {
	ai.Completer
	Model() string
}

func buildCompleter(ctx context.Context, config *Config, opts options, logger *zap.Logger) (modelCompleter, error) {
	cfg := config.Completion

	switch cfg.Provider {
	case ProviderGemini:
		generator, err := gemini.NewGenerator(ctx, opts[optCompletionKey], cfg.Model, logger)
		if err != nil {
			return nil, err
		}
		return generator, nil
	default:
		client, err := groq.New(opts[optCompletionKey], cfg.Model, logger)
		if err != nil {
			return nil, err
		}
		if base := strings.TrimSpace(cfg.BaseURL); base != "" {
			client.BaseURL = base
		}
		return client, nil
	}
}
