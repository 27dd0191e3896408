package cmd

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "profile-analyzer"

	SourceCredentials = "credentials"
	SourceCookie      = "cookie"
	SourceBrowser     = "browser"

	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

type Config struct {
	Source            string            `mapstructure:"source"`
	UserAgent         string            `mapstructure:"user-agent"`
	Primary           *CredentialConfig `mapstructure:"primary"`
	Backup            *CredentialConfig `mapstructure:"backup"`
	SessionCookie     string            `mapstructure:"session-cookie"`
	SessionCookieFile string            `mapstructure:"session-cookie-file"`
	Browser           *BrowserConfig    `mapstructure:"browser"`
	Completion        *CompletionConfig `mapstructure:"completion"`
}

type CredentialConfig struct {
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	PasswordFile string `mapstructure:"password-file"`
}

type BrowserConfig struct {
	Path string `mapstructure:"path"`
}

type CompletionConfig struct {
	Provider   string `mapstructure:"provider"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base-url"`
}

// envBindings maps configuration keys to the environment variables that set them.
var envBindings = map[string]string{
	"source":                  "PROFILE_SOURCE",
	"user-agent":              "PROFILE_USER_AGENT",
	"primary.username":        "PRIMARY_USERNAME",
	"primary.password":        "PRIMARY_PASSWORD",
	"primary.password-file":   "PRIMARY_PASSWORD_FILE",
	"backup.username":         "BACKUP_USERNAME",
	"backup.password":         "BACKUP_PASSWORD",
	"backup.password-file":    "BACKUP_PASSWORD_FILE",
	"session-cookie":          "SESSION_COOKIE",
	"session-cookie-file":     "SESSION_COOKIE_FILE",
	"browser.path":            "BROWSER_PATH",
	"completion.provider":     "COMPLETION_PROVIDER",
	"completion.api-key":      "COMPLETION_API_KEY",
	"completion.api-key-file": "COMPLETION_API_KEY_FILE",
	"completion.model":        "COMPLETION_MODEL",
	"completion.base-url":     "COMPLETION_BASE_URL",
}

var (
	// Used for flags.
	cfgFile string
	envFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "profile-analyzer fetches a professional profile and asks a language model to analyze it",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("source", SourceCredentials)
	viper.SetDefault("completion.provider", ProviderGroq)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is profile-analyzer.yaml in current directory)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "a dotenv file with secrets, skipped when missing")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Variables already present in the environment win over the dotenv file.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && cmdFlagChanged("env-file") {
			log.Fatalf("loading env file %q: %v", envFile, err)
		}
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional; everything can come from the environment.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func cmdFlagChanged(name string) bool {
	flag := rootCmd.PersistentFlags().Lookup(name)
	return flag != nil && flag.Changed
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
