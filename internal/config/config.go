package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	// PublicURL is what join QR codes and the squad client point at.
	PublicURL string `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`
	// TickInterval is the lockout-expiry polling cadence on the team side.
	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
}

// Load reads .env if present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return env.ParseAs[Config]()
}
