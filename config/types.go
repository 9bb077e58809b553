package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Screen  ScreenConfig  `mapstructure:"screen"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds TMDB API connection details
type TMDBConfig struct {
	URL        string        `mapstructure:"url"`
	APIKey     string        `mapstructure:"api_key"`
	Language   string        `mapstructure:"language"`
	ImageURL   string        `mapstructure:"image_url"`
	PosterSize string        `mapstructure:"poster_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ScreenConfig controls how the catalog screen behaves and renders
type ScreenConfig struct {
	// ClientFilter narrows fetched results by title when a query is set
	ClientFilter bool `mapstructure:"client_filter"`
	// ShowEndpoint prints the requested endpoint above the list
	ShowEndpoint  bool   `mapstructure:"show_endpoint"`
	Width         int    `mapstructure:"width"`
	SynopsisLines int    `mapstructure:"synopsis_lines"`
	Where         string `mapstructure:"where"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Color      bool   `mapstructure:"color"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}
