package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Centrifugo CentrifugoConfig `mapstructure:"centrifugo"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	AI         AIConfig         `mapstructure:"ai"`
	Mail       MailConfig       `mapstructure:"mail"`
	Capture    CaptureConfig    `mapstructure:"capture"`
	Session    SessionConfig    `mapstructure:"session"`
}

type AppConfig struct {
	Name           string   `mapstructure:"name"`
	Env            string   `mapstructure:"env"`
	Port           int      `mapstructure:"port"`
	PublicURL      string   `mapstructure:"public_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type CentrifugoConfig struct {
	URL           string `mapstructure:"url"`
	APIKey        string `mapstructure:"api_key"`
	HMACSecretKey string `mapstructure:"hmac_secret_key"`
}

type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessDuration    time.Duration `mapstructure:"access_duration"`
	RefreshDuration   time.Duration `mapstructure:"refresh_duration"`
	MagicLinkDuration time.Duration `mapstructure:"magic_link_duration"`
	ResetDuration     time.Duration `mapstructure:"reset_duration"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AIConfig configures the OpenAI-compatible chat completions endpoint used
// for handwritten note transcription. An empty APIKey is allowed at startup;
// transcription requests then fail with a "not configured" error.
type AIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Referer string        `mapstructure:"referer"`
	Title   string        `mapstructure:"title"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Configured reports whether a model credential is present
func (c *AIConfig) Configured() bool {
	return c.APIKey != ""
}

type MailConfig struct {
	// URL is a shoutrrr service URL (smtp://...). Empty falls back to logging.
	URL  string `mapstructure:"url"`
	From string `mapstructure:"from"`
}

type CaptureConfig struct {
	DraftTTL  time.Duration `mapstructure:"draft_ttl"`
	MaxImages int           `mapstructure:"max_images"`
}

type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// IsProduction checks if app is in production mode
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// IsDevelopment checks if app is in development mode
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// ENV vars override config file values
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Name:           getEnvOrDefault("APP_NAME", v.GetString("app.name")),
			Env:            getEnvOrDefault("APP_ENV", v.GetString("app.env")),
			Port:           getEnvOrDefaultInt("APP_PORT", v.GetInt("app.port")),
			PublicURL:      getEnvOrDefault("APP_PUBLIC_URL", v.GetString("app.public_url")),
			AllowedOrigins: getEnvOrDefaultList("APP_ALLOWED_ORIGINS", v.GetStringSlice("app.allowed_origins")),
		},
		Database: DatabaseConfig{
			Driver:          getEnvOrDefault("DB_DRIVER", v.GetString("database.driver")),
			Host:            getEnvOrDefault("DB_HOST", v.GetString("database.host")),
			Port:            getEnvOrDefaultInt("DB_PORT", v.GetInt("database.port")),
			User:            getEnvOrDefault("DB_USER", v.GetString("database.user")),
			Password:        getEnvOrDefault("DB_PASSWORD", v.GetString("database.password")),
			Name:            getEnvOrDefault("DB_NAME", v.GetString("database.name")),
			SSLMode:         getEnvOrDefault("DB_SSL_MODE", v.GetString("database.ssl_mode")),
			SQLitePath:      getEnvOrDefault("DB_SQLITE_PATH", v.GetString("database.sqlite_path")),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Centrifugo: CentrifugoConfig{
			URL:           getEnvOrDefault("CENTRIFUGO_URL", v.GetString("centrifugo.url")),
			APIKey:        getEnvOrDefault("CENTRIFUGO_API_KEY", v.GetString("centrifugo.api_key")),
			HMACSecretKey: getEnvOrDefault("CENTRIFUGO_HMAC_SECRET_KEY", v.GetString("centrifugo.hmac_secret_key")),
		},
		JWT: JWTConfig{
			Secret:            getEnvOrDefault("JWT_SECRET", v.GetString("jwt.secret")),
			AccessDuration:    v.GetDuration("jwt.access_duration"),
			RefreshDuration:   v.GetDuration("jwt.refresh_duration"),
			MagicLinkDuration: v.GetDuration("jwt.magic_link_duration"),
			ResetDuration:     v.GetDuration("jwt.reset_duration"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", v.GetString("logging.level")),
			Format: getEnvOrDefault("LOG_FORMAT", v.GetString("logging.format")),
		},
		AI: AIConfig{
			APIKey:  getEnvOrDefault("OPENROUTER_API_KEY", v.GetString("ai.api_key")),
			BaseURL: getEnvOrDefault("AI_BASE_URL", v.GetString("ai.base_url")),
			Model:   getEnvOrDefault("AI_MODEL", v.GetString("ai.model")),
			Referer: getEnvOrDefault("AI_REFERER", v.GetString("ai.referer")),
			Title:   getEnvOrDefault("AI_TITLE", v.GetString("ai.title")),
			Timeout: v.GetDuration("ai.timeout"),
		},
		Mail: MailConfig{
			URL:  getEnvOrDefault("MAIL_URL", v.GetString("mail.url")),
			From: getEnvOrDefault("MAIL_FROM", v.GetString("mail.from")),
		},
		Capture: CaptureConfig{
			DraftTTL:  v.GetDuration("capture.draft_ttl"),
			MaxImages: v.GetInt("capture.max_images"),
		},
		Session: SessionConfig{
			TTL: v.GetDuration("session.ttl"),
		},
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Port == 0 {
		c.App.Port = 8080
	}
	if c.App.PublicURL == "" {
		c.App.PublicURL = fmt.Sprintf("http://localhost:%d", c.App.Port)
	}
	if len(c.App.AllowedOrigins) == 0 {
		c.App.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 5 * time.Minute
	}
	if c.JWT.AccessDuration == 0 {
		c.JWT.AccessDuration = 15 * time.Minute
	}
	if c.JWT.RefreshDuration == 0 {
		c.JWT.RefreshDuration = 168 * time.Hour
	}
	if c.JWT.MagicLinkDuration == 0 {
		c.JWT.MagicLinkDuration = 15 * time.Minute
	}
	if c.JWT.ResetDuration == 0 {
		c.JWT.ResetDuration = 30 * time.Minute
	}
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.AI.Model == "" {
		c.AI.Model = "google/gemini-2.5-flash"
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 90 * time.Second
	}
	if c.Capture.DraftTTL == 0 {
		c.Capture.DraftTTL = time.Hour
	}
	if c.Capture.MaxImages == 0 {
		c.Capture.MaxImages = 5
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 10 * time.Minute
	}
}

// getEnvOrDefault returns env value or default
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	// Handle ${VAR:default} pattern in defaultVal
	if strings.HasPrefix(defaultVal, "${") && strings.HasSuffix(defaultVal, "}") {
		inner := defaultVal[2 : len(defaultVal)-1]
		parts := strings.SplitN(inner, ":", 2)
		if len(parts) == 2 {
			return parts[1]
		}
		return ""
	}
	return defaultVal
}

// getEnvOrDefaultInt returns env value as int or default
func getEnvOrDefaultInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		var intVal int
		fmt.Sscanf(val, "%d", &intVal)
		if intVal > 0 {
			return intVal
		}
	}
	if defaultVal > 0 {
		return defaultVal
	}
	return 0
}

// getEnvOrDefaultList splits a comma separated env value
func getEnvOrDefaultList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.App.Port)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	switch c.Database.Driver {
	case "postgres":
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Capture.MaxImages < 1 {
		return fmt.Errorf("capture.max_images must be positive")
	}

	return nil
}

// LoadConfig is a helper function for backward compatibility
func LoadConfig() (*Config, error) {
	return Load("configs/config.yaml")
}
