// Package config provides configuration management for the Courtside Totals application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Ratings  RatingsConfig  `mapstructure:"ratings" validate:"required"`
	Model    ModelConfig    `mapstructure:"model" validate:"required"`
	Training TrainingConfig `mapstructure:"training" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// RatingsConfig represents the external ratings table source
type RatingsConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// ModelConfig gathers the prediction-engine parameters as explicit,
// validated fields instead of free-form key/value maps
type ModelConfig struct {
	LeagueAvgDefense     float64          `mapstructure:"league_avg_defense" validate:"required,gt=0"`
	HomeCourtFactor      float64          `mapstructure:"home_court_factor" validate:"required,gt=0,lt=2"`
	Weights              WeightsConfig    `mapstructure:"weights" validate:"required"`
	RenormalizeOnPartial bool             `mapstructure:"renormalize_on_partial"`
	CacheTTLSeconds      int              `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	Calibrated           CalibratedConfig `mapstructure:"calibrated" validate:"required"`
	Learned              LearnedConfig    `mapstructure:"learned" validate:"required"`
}

// WeightsConfig holds the ensemble weights
type WeightsConfig struct {
	Formula    float64 `mapstructure:"formula" validate:"gte=0"`
	Calibrated float64 `mapstructure:"calibrated" validate:"gte=0"`
	Learned    float64 `mapstructure:"learned" validate:"gte=0"`
}

// CalibratedConfig holds calibrated-predictor hyperparameters
type CalibratedConfig struct {
	RidgeLambda float64 `mapstructure:"ridge_lambda" validate:"gte=0"`
	FitResidual bool    `mapstructure:"fit_residual"`
}

// LearnedConfig holds tree-ensemble hyperparameters
type LearnedConfig struct {
	Algorithm      string  `mapstructure:"algorithm" validate:"required,algorithm"`
	NumTrees       int     `mapstructure:"num_trees" validate:"required,gt=0"`
	MaxDepth       int     `mapstructure:"max_depth" validate:"required,gt=0"`
	MinLeaf        int     `mapstructure:"min_leaf" validate:"required,gt=0"`
	LearningRate   float64 `mapstructure:"learning_rate" validate:"gt=0,lte=1"`
	SubsampleRatio float64 `mapstructure:"subsample_ratio" validate:"gt=0,lte=1"`
	Seed           int64   `mapstructure:"seed"`
}

// TrainingConfig represents training and evaluation configuration
type TrainingConfig struct {
	KFolds          int    `mapstructure:"kfolds" validate:"required,gt=1"`
	MinGamesPerFold int    `mapstructure:"min_games_per_fold" validate:"required,gt=0"`
	ArtifactDir     string `mapstructure:"artifact_dir" validate:"required"`
	ReportPath      string `mapstructure:"report_path"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// ScheduleConfig represents cron expressions for periodic jobs
type ScheduleConfig struct {
	RatingsRefresh string `mapstructure:"ratings_refresh"`
	Retraining     string `mapstructure:"retraining"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// RatingsTimeout returns the ratings client timeout as a duration
func (c *Config) RatingsTimeout() time.Duration {
	return time.Duration(c.Ratings.TimeoutSeconds) * time.Second
}

// CacheTTL returns the prediction cache TTL as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Model.CacheTTLSeconds) * time.Second
}
