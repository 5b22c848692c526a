package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName        string
	AppEnv         string
	AppPort        string
	AllowedOrigins []string
	DatabaseURL    string
	RedisURL       string
	NATSURL        string
	EventChannel   string
	JWTSecret      string

	ProgressCacheTTL  time.Duration
	ProgressLockTTL   time.Duration
	EvaluationWorkers int

	AIProvider      string
	AIModel         string
	AIBaseURL       string
	AITimeout       time.Duration
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string

	SeedEnabled         bool
	SeedToken           string
	LevelCheckRateLimit int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LINGUA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Lingua API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.allowed_origins", "*")
	v.SetDefault("events.channel", "lingua")
	v.SetDefault("progress.cache_ttl", "5m")
	v.SetDefault("progress.lock_ttl", "5s")
	v.SetDefault("evaluation.workers", 4)
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.timeout", "30s")
	v.SetDefault("seed.enabled", false)
	v.SetDefault("level_check.rate_limit", 5)

	cacheTTL, err := parseDuration(v, "progress.cache_ttl")
	if err != nil {
		return Config{}, err
	}
	lockTTL, err := parseDuration(v, "progress.lock_ttl")
	if err != nil {
		return Config{}, err
	}
	aiTimeout, err := parseDuration(v, "ai.timeout")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		AllowedOrigins:      splitList(v.GetString("app.allowed_origins")),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		EventChannel:        v.GetString("events.channel"),
		JWTSecret:           v.GetString("jwt.secret"),
		ProgressCacheTTL:    cacheTTL,
		ProgressLockTTL:     lockTTL,
		EvaluationWorkers:   v.GetInt("evaluation.workers"),
		AIProvider:          strings.ToLower(strings.TrimSpace(v.GetString("ai.provider"))),
		AIModel:             v.GetString("ai.model"),
		AIBaseURL:           v.GetString("ai.base_url"),
		AITimeout:           aiTimeout,
		OpenAIAPIKey:        v.GetString("openai_api_key"),
		AnthropicAPIKey:     v.GetString("anthropic_api_key"),
		GeminiAPIKey:        v.GetString("gemini_api_key"),
		SeedEnabled:         v.GetBool("seed.enabled"),
		SeedToken:           v.GetString("seed.token"),
		LevelCheckRateLimit: v.GetInt("level_check.rate_limit"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	switch cfg.AIProvider {
	case "openai", "anthropic", "gemini":
	default:
		return Config{}, fmt.Errorf("unsupported ai provider %q", cfg.AIProvider)
	}

	if cfg.EvaluationWorkers <= 0 {
		cfg.EvaluationWorkers = 4
	}
	if cfg.LevelCheckRateLimit <= 0 {
		cfg.LevelCheckRateLimit = 5
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	value, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return value, nil
}

func splitList(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
