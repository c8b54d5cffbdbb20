package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/ZanzyTHEbar/methodmatch/internal/analysis"
)

// EnvConfigPath names the TOML file to load when no path is passed explicitly
const EnvConfigPath = "METHODMATCH_CONFIG"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Data      DataConfig      `toml:"data"`
	Scoring   ScoringConfig   `toml:"scoring"`
	Cache     CacheConfig     `toml:"cache"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Styles    []StyleConfig   `toml:"styles"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string   `toml:"port"`
	GinMode        string   `toml:"gin_mode"`
	LogLevel       string   `toml:"log_level"`
	AllowedOrigins []string `toml:"allowed_origins"`
	RequestTimeout Duration `toml:"request_timeout"`
	MaxUploadBytes int64    `toml:"max_upload_bytes"`
}

// DataConfig holds file system paths
type DataConfig struct {
	Dir         string `toml:"dir"`
	WeightsPath string `toml:"weights_path"`
	ResultsDB   string `toml:"results_db"`
}

// ScoringConfig holds the classifier policy
type ScoringConfig struct {
	OnMiss string  `toml:"on_miss"`
	Alpha  float64 `toml:"alpha"`
}

// CacheConfig holds score cache settings; an empty RedisAddr keeps it in memory
type CacheConfig struct {
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
}

// RateLimitConfig holds per-IP request limits
type RateLimitConfig struct {
	PerMinute int `toml:"per_minute"`
	Burst     int `toml:"burst"`
}

// StyleConfig overrides the style enumeration; order is significant
type StyleConfig struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

// Duration is a time.Duration that decodes from strings like "15m"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration
func Default() *Config {
	styles := analysis.DefaultStyles()
	sc := make([]StyleConfig, len(styles))
	for i, s := range styles {
		sc[i] = StyleConfig{Name: string(s.Style), Description: s.Description}
	}

	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			GinMode:        "release",
			LogLevel:       "info",
			AllowedOrigins: []string{"*"},
			RequestTimeout: Duration{30 * time.Second},
			MaxUploadBytes: 10 << 20,
		},
		Data: DataConfig{
			Dir:       "./data",
			ResultsDB: "methodmatch.db",
		},
		Scoring: ScoringConfig{
			OnMiss: string(analysis.MissZero),
			Alpha:  analysis.DefaultAlpha,
		},
		Cache: CacheConfig{
			TTL: Duration{15 * time.Minute},
		},
		RateLimit: RateLimitConfig{
			PerMinute: 120,
			Burst:     20,
		},
		Styles: sc,
	}
}

// Load builds the configuration: defaults, then the TOML file (path or
// METHODMATCH_CONFIG), then .env and process environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using system environment variables")
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slog.Warn("Ignoring unknown configuration keys", "path", path, "keys", keys)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)
	c.Server.GinMode = getEnvOrDefault("GIN_MODE", c.Server.GinMode)
	c.Server.LogLevel = getEnvOrDefault("LOG_LEVEL", c.Server.LogLevel)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	c.Data.Dir = getEnvOrDefault("DATA_DIR", c.Data.Dir)
	c.Data.WeightsPath = getEnvOrDefault("WEIGHTS_PATH", c.Data.WeightsPath)
	c.Data.ResultsDB = getEnvOrDefault("RESULTS_DB", c.Data.ResultsDB)

	c.Scoring.OnMiss = getEnvOrDefault("ON_MISS", c.Scoring.OnMiss)
	if v := os.Getenv("RIDGE_ALPHA"); v != "" {
		alpha, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RIDGE_ALPHA: %w", err)
		}
		c.Scoring.Alpha = alpha
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		if err := c.Cache.TTL.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("CACHE_TTL: %w", err)
		}
	}
	c.Cache.RedisAddr = getEnvOrDefault("REDIS_ADDR", c.Cache.RedisAddr)
	c.Cache.RedisPassword = getEnvOrDefault("REDIS_PASSWORD", c.Cache.RedisPassword)

	if v := os.Getenv("RATE_LIMIT_PER_MIN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_PER_MIN: %w", err)
		}
		c.RateLimit.PerMinute = n
	}

	return nil
}

// Validate checks the scoring policy and style enumeration
func (c *Config) Validate() error {
	if _, err := analysis.ParseMissPolicy(c.Scoring.OnMiss); err != nil {
		return err
	}
	if c.Scoring.Alpha <= 0 {
		return fmt.Errorf("scoring.alpha must be positive, got %v", c.Scoring.Alpha)
	}
	if c.RateLimit.PerMinute < 0 {
		return fmt.Errorf("rate_limit.per_minute must not be negative")
	}
	if c.Cache.TTL.Duration < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if strings.TrimSpace(c.Data.Dir) == "" {
		return fmt.Errorf("data.dir is required")
	}
	_, err := c.Catalog()
	return err
}

// Catalog builds the immutable domain configuration
func (c *Config) Catalog() (*analysis.Catalog, error) {
	policy, err := analysis.ParseMissPolicy(c.Scoring.OnMiss)
	if err != nil {
		return nil, err
	}

	styles := make([]analysis.StyleInfo, len(c.Styles))
	for i, s := range c.Styles {
		styles[i] = analysis.StyleInfo{Style: analysis.Style(s.Name), Description: s.Description}
	}

	return analysis.NewCatalog(styles, policy, c.Scoring.Alpha)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
