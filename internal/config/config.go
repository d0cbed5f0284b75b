// This file defines the configuration structure for the application.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/cineniche/cineniche/internal/genre"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port     int `mapstructure:"port"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Session struct {
		TTLHours       int `mapstructure:"ttl_hours"`
		LoginRateLimit int `mapstructure:"login_rate_limit"` // requests per minute per IP, 0 disables
	} `mapstructure:"session"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
	Genres struct {
		Priority []string `mapstructure:"priority"`
		Fallback string   `mapstructure:"fallback"`
	} `mapstructure:"genres"`
	Posters struct {
		Path     string `mapstructure:"path"`
		Fallback string `mapstructure:"fallback"`
		Watch    bool   `mapstructure:"watch"`
	} `mapstructure:"posters"`
	Catalog struct {
		UpstreamURL  string `mapstructure:"upstream_url"`
		SyncInterval int    `mapstructure:"sync_interval"` // minutes, 0 disables
	} `mapstructure:"catalog"`
	Recommender struct {
		BaseURL         string `mapstructure:"base_url"`
		TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
		MaxFailures     uint32 `mapstructure:"max_failures"`
		CooldownSeconds int    `mapstructure:"cooldown_seconds"`
		Limit           int    `mapstructure:"limit"`
	} `mapstructure:"recommender"`
	Browse struct {
		ItemStep        int `mapstructure:"item_step"`
		SectionStep     int `mapstructure:"section_step"`
		InitialSections int `mapstructure:"initial_sections"`
		Featured        int `mapstructure:"featured"`
	} `mapstructure:"browse"`
	Admin struct {
		PageSize int    `mapstructure:"page_size"`
		Email    string `mapstructure:"email"` // provisioned on first start when no administrator exists
	} `mapstructure:"admin"`
}

// GenrePriority returns the configured genre ordering as a genre.Priority.
func (c *Config) GenrePriority() genre.Priority {
	if len(c.Genres.Priority) == 0 {
		return genre.DefaultPriority
	}
	return genre.NewPriority(c.Genres.Priority...)
}

// GenreFallback returns the sentinel used for titles without any genre flag.
func (c *Config) GenreFallback() string {
	if c.Genres.Fallback == "" {
		return genre.DefaultFallback
	}
	return c.Genres.Fallback
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")

	// e.g., CINENICHE_DATABASE_PATH will override the `database.path` key.
	v.SetEnvPrefix("CINENICHE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns a Config holding only the built-in defaults.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Unmarshalling plain defaults cannot fail.
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 5000)
	v.SetDefault("database.path", "./cineniche.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("session.ttl_hours", 7*24)
	v.SetDefault("session.login_rate_limit", 10)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("genres.priority", genre.DefaultPriority.Keys())
	v.SetDefault("genres.fallback", genre.DefaultFallback)
	v.SetDefault("posters.path", "./posters")
	v.SetDefault("posters.fallback", "fallback.jpg")
	v.SetDefault("posters.watch", true)
	v.SetDefault("catalog.upstream_url", "")
	v.SetDefault("catalog.sync_interval", 0)
	v.SetDefault("recommender.base_url", "")
	v.SetDefault("recommender.timeout_seconds", 10)
	v.SetDefault("recommender.max_failures", 5)
	v.SetDefault("recommender.cooldown_seconds", 30)
	v.SetDefault("recommender.limit", 20)
	v.SetDefault("browse.item_step", 20)
	v.SetDefault("browse.section_step", 2)
	v.SetDefault("browse.initial_sections", 4)
	v.SetDefault("browse.featured", 5)
	v.SetDefault("admin.page_size", 6)
	v.SetDefault("admin.email", "admin@cineniche.local")
}
