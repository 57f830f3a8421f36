package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is built once at process start and passed into each component.
// Components never read the environment themselves.
type Config struct {
	Server ServerConfig
	AWS    AWSConfig
	Tables TableConfig
	AI     AIConfig
	Limits LimitConfig
	Auth   AuthConfig
	CORS   CORSConfig
}

type ServerConfig struct {
	Port     string `envconfig:"PORT" default:"8080"`
	RunLocal bool   `envconfig:"RUN_LOCAL" default:"false"`
}

type AWSConfig struct {
	Region           string `envconfig:"AWS_REGION" default:"us-east-1"`
	DynamoDBEndpoint string `envconfig:"DYNAMODB_ENDPOINT" default:"http://localhost:8000"`
	UseLocalDB       bool   `envconfig:"USE_LOCAL_DB" default:"false"`
}

type TableConfig struct {
	Recipes   string `envconfig:"RECIPE_TABLE_NAME" default:"ChefGPT-Recipes-Local"`
	RateLimit string `envconfig:"RATE_LIMIT_TABLE_NAME" default:"ChefGPT-RateLimit-Local"`
}

type AIConfig struct {
	APIKey string `envconfig:"OPENROUTER_API_KEY" required:"true"`
	Model  string `envconfig:"OPENROUTER_LLM_MODEL" required:"true"`
}

type LimitConfig struct {
	MaxRecipesPerUser int `envconfig:"MAX_RECIPES_PER_USER" default:"10"`
	// RateLimitWindowMS is expressed in milliseconds to match the
	// stored requestId encoding. Default is 30 minutes.
	RateLimitWindowMS int64 `envconfig:"RATE_LIMIT_WINDOW_MS" default:"1800000"`
}

type AuthConfig struct {
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
}

type CORSConfig struct {
	AllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000"`
}

// RateLimitWindow returns the window as a time.Duration.
func (l LimitConfig) RateLimitWindow() time.Duration {
	return time.Duration(l.RateLimitWindowMS) * time.Millisecond
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env config: %w", err)
	}
	return cfg, nil
}

// NewTestConfig returns a fixed configuration for unit tests.
func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{Port: "8889", RunLocal: true},
		AWS: AWSConfig{
			Region:           "us-east-1",
			DynamoDBEndpoint: "http://localhost:8000",
			UseLocalDB:       true,
		},
		Tables: TableConfig{
			Recipes:   "ChefGPT-Recipes-Test",
			RateLimit: "ChefGPT-RateLimit-Test",
		},
		AI:     AIConfig{APIKey: "test-key", Model: "test-model"},
		Limits: LimitConfig{MaxRecipesPerUser: 10, RateLimitWindowMS: 1800000},
		Auth:   AuthConfig{JWTSecret: "test-secret"},
		CORS:   CORSConfig{AllowOrigins: []string{"http://localhost:3000"}},
	}
}
