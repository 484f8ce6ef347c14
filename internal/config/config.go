package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config holds all runtime settings, parsed once at startup and passed to
// whatever needs it. Nothing reads the environment after Load returns.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"*"`

	MongoURI string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DBName   string `env:"DB_NAME" envDefault:"reviewpulse"`

	// GroqAPIKey may be empty; the text engine then runs in fallback mode.
	GroqAPIKey string `env:"GROQ_API_KEY"`
	GroqModel  string `env:"GROQ_MODEL" envDefault:"llama-3.3-70b-versatile"`

	JWTSecret     string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@reviewpulse.local"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"changeme"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
