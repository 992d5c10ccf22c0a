package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/rs/zerolog/log"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	// HTTP
	Port               string   `env:"PORT" envDefault:"3001"`
	GinMode            string   `env:"GIN_MODE" envDefault:"release"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	// Telegram (bot disabled when empty)
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`

	// LLM settings
	LLMProvider       LLMProvider   `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL"`
	OpenAIModel       string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIVisionModel string        `env:"OPENAI_VISION_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken  string        `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID    string        `env:"YANDEX_FOLDER_ID"`
	ModelTimeout      time.Duration `env:"MODEL_TIMEOUT" envDefault:"90s"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Storage
	DataDir         string `env:"DATA_DIR" envDefault:"db"`
	LegacySiteDir   string `env:"LEGACY_SITE_DIR" envDefault:"webSite"`
	ActivityLogPath string `env:"ACTIVITY_LOG_PATH" envDefault:"logs/activity.jsonl"`

	// Uploads
	MaxUploadImages int   `env:"MAX_UPLOAD_IMAGES" envDefault:"10"`
	MaxUploadBytes  int64 `env:"MAX_UPLOAD_BYTES" envDefault:"20971520"`

	// Publishing
	GitHubToken      string        `env:"GITHUB_TOKEN"`
	GitHubOrg        string        `env:"GITHUB_ORG" envDefault:"your-github-org"`
	GitHubRepoPrefix string        `env:"GITHUB_REPO_PREFIX" envDefault:"user-website-"`
	GitHubBranch     string        `env:"GITHUB_BRANCH" envDefault:"main"`
	GitAuthorName    string        `env:"GIT_AUTHOR_NAME" envDefault:"Website Builder Bot"`
	GitAuthorEmail   string        `env:"GIT_AUTHOR_EMAIL" envDefault:"website-builder-bot@users.noreply.github.com"`
	PublishDir       string        `env:"PUBLISH_DIR" envDefault:"user-websites"`
	PublishTimeout   time.Duration `env:"PUBLISH_TIMEOUT" envDefault:"3m"`

	// Scheduled jobs (UTC cron specs)
	OrphanSweepSpec string        `env:"ORPHAN_SWEEP_SPEC" envDefault:"@hourly"`
	OrphanMaxAge    time.Duration `env:"ORPHAN_MAX_AGE" envDefault:"1h"`
	DailyReportSpec string        `env:"DAILY_REPORT_SPEC" envDefault:"0 21 * * *"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func New() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	return cfg
}

func (c *Config) Validate() error {
	var errs []error
	c.LLMProvider = LLMProvider(strings.ToLower(string(c.LLMProvider)))
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
	case ProviderYandex:
		if c.YandexOAuthToken == "" || c.YandexFolderID == "" {
			errs = append(errs, errors.New("YANDEX_OAUTH_TOKEN and YANDEX_FOLDER_ID are required for the yandex provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}
	if c.ModelTimeout <= 0 {
		errs = append(errs, errors.New("MODEL_TIMEOUT must be positive"))
	}
	if c.PublishTimeout <= 0 {
		errs = append(errs, errors.New("PUBLISH_TIMEOUT must be positive"))
	}
	if c.MaxUploadImages <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_IMAGES must be positive"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

// PublishEnabled reports whether a GitHub token is configured.
func (c *Config) PublishEnabled() bool { return c.GitHubToken != "" }
