package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Google     GoogleConfig     `yaml:"google" mapstructure:"google"`
	Places     PlacesConfig     `yaml:"places" mapstructure:"places"`
	Resilience ResilienceConfig `yaml:"resilience" mapstructure:"resilience"`
	Geo        GeoConfig        `yaml:"geo" mapstructure:"geo"`
	Ranking    RankingConfig    `yaml:"ranking" mapstructure:"ranking"`
	Moods      MoodsConfig      `yaml:"moods" mapstructure:"moods"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// GoogleConfig holds Google Maps Platform credentials and endpoints.
type GoogleConfig struct {
	Key              string  `yaml:"key" mapstructure:"key"`
	PlacesBaseURL    string  `yaml:"places_base_url" mapstructure:"places_base_url"`
	Language         string  `yaml:"language" mapstructure:"language"`
	GeocodeRateLimit float64 `yaml:"geocode_rate_limit" mapstructure:"geocode_rate_limit"`
}

// PlacesConfig configures place discovery.
type PlacesConfig struct {
	RadiusMeters       float64 `yaml:"radius_meters" mapstructure:"radius_meters"`
	MaxResults         int     `yaml:"max_results" mapstructure:"max_results"`
	PageSize           int     `yaml:"page_size" mapstructure:"page_size"`
	RateLimit          float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs        int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Concurrency        int     `yaml:"concurrency" mapstructure:"concurrency"`
	RankByDistance     bool    `yaml:"rank_by_distance" mapstructure:"rank_by_distance"`
	DetailCacheTTLSecs int     `yaml:"detail_cache_ttl_secs" mapstructure:"detail_cache_ttl_secs"`
	DetailCacheSize    int     `yaml:"detail_cache_size" mapstructure:"detail_cache_size"`
}

// ResilienceConfig configures retries and the provider circuit breaker.
type ResilienceConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// GeoConfig holds the fallback origin used when geolocation fails.
type GeoConfig struct {
	DefaultLat float64 `yaml:"default_lat" mapstructure:"default_lat"`
	DefaultLng float64 `yaml:"default_lng" mapstructure:"default_lng"`
}

// RankingConfig tunes the filter/sort pipeline.
type RankingConfig struct {
	MissingDistanceLast bool `yaml:"missing_distance_last" mapstructure:"missing_distance_last"`
}

// MoodsConfig points at an optional mood table replacing the embedded one.
type MoodsConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MOODMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("google.key", "")
	v.SetDefault("google.places_base_url", "https://places.googleapis.com/v1")
	v.SetDefault("google.language", "en")
	v.SetDefault("google.geocode_rate_limit", 10)
	v.SetDefault("places.radius_meters", 5000)
	v.SetDefault("places.max_results", 20)
	v.SetDefault("places.page_size", 20)
	v.SetDefault("places.rate_limit", 10)
	v.SetDefault("places.timeout_secs", 10)
	v.SetDefault("places.concurrency", 4)
	v.SetDefault("places.rank_by_distance", false)
	v.SetDefault("places.detail_cache_ttl_secs", 300)
	v.SetDefault("places.detail_cache_size", 256)
	v.SetDefault("resilience.max_attempts", 3)
	v.SetDefault("resilience.initial_backoff_ms", 200)
	v.SetDefault("resilience.max_backoff_ms", 2000)
	v.SetDefault("resilience.failure_threshold", 5)
	v.SetDefault("resilience.reset_timeout_secs", 30)
	v.SetDefault("geo.default_lat", 40.7128)
	v.SetDefault("geo.default_lng", -74.0060)
	v.SetDefault("ranking.missing_distance_last", false)
	v.SetDefault("moods.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the fields a command needs are present. Mode is
// "offline" for commands that never call Google, anything else requires a key.
func (c *Config) Validate(mode string) error {
	var problems []string

	if mode != "offline" && c.Google.Key == "" {
		problems = append(problems, "google.key is required")
	}
	if c.Places.RadiusMeters <= 0 {
		problems = append(problems, "places.radius_meters must be positive")
	}
	if c.Places.MaxResults <= 0 {
		problems = append(problems, "places.max_results must be positive")
	}
	if c.Places.Concurrency <= 0 {
		problems = append(problems, "places.concurrency must be positive")
	}
	if c.Places.RateLimit <= 0 {
		problems = append(problems, "places.rate_limit must be positive")
	}
	if c.Places.PageSize < 1 || c.Places.PageSize > 20 {
		problems = append(problems, "places.page_size must be within [1, 20]")
	}
	if c.Places.TimeoutSecs <= 0 {
		problems = append(problems, "places.timeout_secs must be positive")
	}
	if c.Geo.DefaultLat < -90 || c.Geo.DefaultLat > 90 {
		problems = append(problems, "geo.default_lat must be within [-90, 90]")
	}
	if c.Geo.DefaultLng < -180 || c.Geo.DefaultLng > 180 {
		problems = append(problems, "geo.default_lng must be within [-180, 180]")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
