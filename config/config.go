package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/DasBoogs/news-fetcher/models"
)

// Config holds all configuration for the fetcher service
type Config struct {
	General    GeneralConfig    `mapstructure:"general"`
	Sources    SourcesConfig    `mapstructure:"sources"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment"`
	Subjects   []SubjectConfig  `mapstructure:"subjects"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Listen   string `mapstructure:"listen"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// SourcesConfig groups per-source settings
type SourcesConfig struct {
	RequestTimeout time.Duration    `mapstructure:"request_timeout"`
	ThrottleDelay  time.Duration    `mapstructure:"throttle_delay"`
	HackerNews     HackerNewsConfig `mapstructure:"hackernews"`
	Reddit         RedditConfig     `mapstructure:"reddit"`
	DevTo          DevToConfig      `mapstructure:"devto"`
}

// HackerNewsConfig configures the Algolia HN Search provider
type HackerNewsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Endpoint   string `mapstructure:"endpoint"`
	MaxPerPage int    `mapstructure:"max_per_page"`
}

// RedditConfig configures the public reddit listing provider
type RedditConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Endpoint   string   `mapstructure:"endpoint"`
	Subreddits []string `mapstructure:"subreddits"`
	UserAgent  string   `mapstructure:"user_agent"`
	MaxPerPage int      `mapstructure:"max_per_page"`
}

// DevToConfig configures the dev.to articles provider
type DevToConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Endpoint   string   `mapstructure:"endpoint"`
	Tags       []string `mapstructure:"tags"`
	MaxPerPage int      `mapstructure:"max_per_page"`
}

// ScoringConfig carries engagement weights and the default result limit
type ScoringConfig struct {
	Weights      WeightsConfig `mapstructure:"weights"`
	DefaultLimit int           `mapstructure:"default_limit"`
}

// WeightsConfig mirrors models.ScoringWeights for file/env override
type WeightsConfig struct {
	Upvotes   float64 `mapstructure:"upvotes"`
	Comments  float64 `mapstructure:"comments"`
	Shares    float64 `mapstructure:"shares"`
	Reactions float64 `mapstructure:"reactions"`
	Views     float64 `mapstructure:"views"`
}

// EnrichmentConfig controls best-effort content scraping
type EnrichmentConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MinContentChars int           `mapstructure:"min_content_chars"`
	MaxWords        int           `mapstructure:"max_words"`
	Timeout         time.Duration `mapstructure:"timeout"`
	UserAgent       string        `mapstructure:"user_agent"`
}

// SubjectConfig is one static subject definition loaded at startup
type SubjectConfig struct {
	ID           string   `mapstructure:"id"`
	Name         string   `mapstructure:"name"`
	Description  string   `mapstructure:"description"`
	Keywords     []string `mapstructure:"keywords"`
	RelatedTerms []string `mapstructure:"related_terms"`
}

// Subject converts a config definition to the domain model.
func (s SubjectConfig) Subject() models.Subject {
	return models.Subject{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Keywords:     s.Keywords,
		RelatedTerms: s.RelatedTerms,
	}
}

// DomainWeights converts the configured weights to the domain model.
func (s ScoringConfig) DomainWeights() models.ScoringWeights {
	return models.ScoringWeights{
		Upvotes:   s.Weights.Upvotes,
		Comments:  s.Weights.Comments,
		Shares:    s.Weights.Shares,
		Reactions: s.Weights.Reactions,
		Views:     s.Weights.Views,
	}
}

func (s SourcesConfig) Validate() error {
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("sources.request_timeout must be > 0")
	}
	if s.ThrottleDelay < 0 {
		return fmt.Errorf("sources.throttle_delay must be >= 0")
	}
	return nil
}

func (e EnrichmentConfig) Validate() error {
	if e.Enabled && e.Timeout <= 0 {
		return fmt.Errorf("enrichment.timeout must be > 0 when enrichment is enabled")
	}
	return nil
}

// LoadConfig loads config from file
func LoadConfig(path string) *Config {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("json")   // REQUIRED if the config file does not have the extension in the name
	viper.SetDefault("general.listen", ":8080")
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("sources.request_timeout", 10*time.Second)
	viper.SetDefault("sources.throttle_delay", 250*time.Millisecond)
	viper.SetDefault("sources.hackernews.enabled", true)
	viper.SetDefault("sources.hackernews.endpoint", "https://hn.algolia.com/api/v1")
	viper.SetDefault("sources.hackernews.max_per_page", 20)
	viper.SetDefault("sources.reddit.enabled", true)
	viper.SetDefault("sources.reddit.endpoint", "https://www.reddit.com")
	viper.SetDefault("sources.reddit.subreddits", []string{"technology", "programming"})
	viper.SetDefault("sources.reddit.user_agent", "news-fetcher/1.0 (aggregation bot)")
	viper.SetDefault("sources.reddit.max_per_page", 25)
	viper.SetDefault("sources.devto.enabled", true)
	viper.SetDefault("sources.devto.endpoint", "https://dev.to/api")
	viper.SetDefault("sources.devto.max_per_page", 30)
	viper.SetDefault("scoring.weights.upvotes", 1.0)
	viper.SetDefault("scoring.weights.comments", 2.0)
	viper.SetDefault("scoring.weights.shares", 1.5)
	viper.SetDefault("scoring.weights.reactions", 0.8)
	viper.SetDefault("scoring.weights.views", 0.01)
	viper.SetDefault("scoring.default_limit", 10)
	viper.SetDefault("enrichment.enabled", true)
	viper.SetDefault("enrichment.min_content_chars", 100)
	viper.SetDefault("enrichment.max_words", 300)
	viper.SetDefault("enrichment.timeout", 8*time.Second)
	viper.SetDefault("enrichment.user_agent", "news-fetcher/1.0 (content enrichment)")

	if path == "" {
		viper.AddConfigPath("./config") // path to look for the config file in
		viper.AddConfigPath(".")        // optionally look for config in the working directory
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)                                // bin/
		viper.AddConfigPath(filepath.Join(exeDir, ".."))           // repo root
		viper.AddConfigPath(filepath.Join(exeDir, "..", "config")) // repo root/config
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("NEWSFETCHER")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	viper.AutomaticEnv() // read in environment variables that match (NEWSFETCHER_*)

	err := viper.ReadInConfig() // Find and read the config file
	if err != nil {             // Handle errors reading the config file
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	// unmarshal config
	var config Config

	if err = viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	if err := config.Sources.Validate(); err != nil {
		panic(err)
	}
	if err := config.Enrichment.Validate(); err != nil {
		panic(err)
	}
	return &config
}
