package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		HTTP     HTTP
		Log      Log
		Store    Store
		Image    Image
		Dispatch Dispatch
		Page     Page
		Kafka    Kafka
		Swagger  Swagger
	}

	HTTP struct {
		Port           string `env:"HTTP_PORT,required"`
		UsePreforkMode bool   `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	Store struct {
		PendingRoot  string `env:"STORE_PENDING_ROOT,required"`
		ApprovedRoot string `env:"STORE_APPROVED_ROOT,required"`
		RejectedRoot string `env:"STORE_REJECTED_ROOT,required"`
		PausedRoot   string `env:"STORE_PAUSED_ROOT,required"`
	}

	Image struct {
		MinDimension int `env:"IMAGE_MIN_DIMENSION" envDefault:"240"`
		OutputSize   int `env:"IMAGE_OUTPUT_SIZE" envDefault:"240"`
	}

	Dispatch struct {
		PrimaryURL   string        `env:"DISPATCH_PRIMARY_URL,required"`
		SecondaryURL string        `env:"DISPATCH_SECONDARY_URL,required"`
		Timeout      time.Duration `env:"DISPATCH_TIMEOUT" envDefault:"10s"`
	}

	Page struct {
		DefaultLimit int `env:"PAGE_DEFAULT_LIMIT" envDefault:"10"`
		MaxLimit     int `env:"PAGE_MAX_LIMIT" envDefault:"100"`
	}

	Kafka struct {
		Enabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
		Brokers []string `env:"KAFKA_BROKERS" envDefault:""`
		Topic   string   `env:"KAFKA_TOPIC" envDefault:"entity-transitions"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}
