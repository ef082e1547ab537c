package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DiscordToken     string `env:"DISCORD_BOT_TOKEN"`
	DiscordClientID  string `env:"DISCORD_CLIENT_ID"`
	DiscordPublicKey string `env:"DISCORD_PUBLIC_KEY"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// cola
	QueueBackend    string        `env:"QUEUE_BACKEND" envDefault:"memory"` // memory | postgres | sqlite
	DatabaseURL     string        `env:"DATABASE_URL"`
	QueueMaxEntries int           `env:"QUEUE_MAX_ENTRIES" envDefault:"100"`
	QueueTTL        time.Duration `env:"QUEUE_TTL" envDefault:"24h"`
	// cada cuánto cmd/server purga colas inactivas (memory, sqlite)
	QueuePruneInterval time.Duration `env:"QUEUE_PRUNE_INTERVAL" envDefault:"10m"`

	// lookups
	LookupTimeout     time.Duration `env:"LOOKUP_TIMEOUT" envDefault:"2500ms"`
	PlayRatePerMinute int           `env:"PLAY_RATE_PER_MINUTE" envDefault:"6"`
	DemoFallback      bool          `env:"DEMO_FALLBACK" envDefault:"true"`

	// logs
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	LogFile   string `env:"LOG_FILE"`

	// janitor
	JanitorKeepGuilds []string `env:"JANITOR_KEEP_GUILDS" envSeparator:","`
}

// Load lee .env (si existe) y el entorno. No exige token/client id: sólo
// el registro de comandos los necesita y lo valida ahí.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.QueueBackend = strings.ToLower(strings.TrimSpace(cfg.QueueBackend))
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	switch c.QueueBackend {
	case "memory":
	case "postgres", "sqlite":
		if c.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("QUEUE_BACKEND=%s requires DATABASE_URL", c.QueueBackend))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown QUEUE_BACKEND %q", c.QueueBackend))
	}
	if c.DiscordPublicKey != "" {
		if _, err := c.PublicKey(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.LookupTimeout <= 0 {
		errs = append(errs, errors.New("LOOKUP_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// PublicKey decodifica la key hex del portal de Discord (32 bytes).
func (c Config) PublicKey() ([]byte, error) {
	k, err := hex.DecodeString(strings.TrimSpace(c.DiscordPublicKey))
	if err != nil {
		return nil, fmt.Errorf("DISCORD_PUBLIC_KEY: %w", err)
	}
	if len(k) != 32 {
		return nil, fmt.Errorf("DISCORD_PUBLIC_KEY: expected 32 bytes, got %d", len(k))
	}
	return k, nil
}

// BotAuth agrega el prefijo "Bot " si falta.
func (c Config) BotAuth() string {
	auth := strings.TrimSpace(c.DiscordToken)
	if auth != "" && !strings.HasPrefix(strings.ToLower(auth), "bot ") {
		auth = "Bot " + auth
	}
	return auth
}

func (c Config) CanRegister() bool {
	return c.DiscordToken != "" && c.DiscordClientID != ""
}
