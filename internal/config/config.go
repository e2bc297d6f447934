package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr         string
	PingInterval time.Duration
	IdleTimeout  time.Duration
	WriteTimeout time.Duration
	MaxFrameSize int64
	OutboxSize   int
	// ReleaseSeatsOnDisconnect frees a player's seats and drops their
	// registry entry when the connection ends.
	ReleaseSeatsOnDisconnect bool
	DatabaseURL              string
	LogLevel                 string
	Env                      string
}

func Default() Config {
	return Config{
		Addr:         ":8080",
		PingInterval: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Second,
		MaxFrameSize: 32 << 10,
		OutboxSize:   16,
		LogLevel:     "info",
		Env:          "prod",
	}
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, falling back to Default for unset keys.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	p := parser{lookup: lookup}

	p.str("LOBBY_ADDR", &c.Addr)
	p.duration("LOBBY_PING_INTERVAL", &c.PingInterval)
	p.duration("LOBBY_IDLE_TIMEOUT", &c.IdleTimeout)
	p.duration("LOBBY_WRITE_TIMEOUT", &c.WriteTimeout)
	p.int64("LOBBY_MAX_FRAME_BYTES", &c.MaxFrameSize)
	p.int("LOBBY_OUTBOX_SIZE", &c.OutboxSize)
	p.bool("LOBBY_RELEASE_SEATS_ON_DISCONNECT", &c.ReleaseSeatsOnDisconnect)
	p.str("DATABASE_URL", &c.DatabaseURL)
	p.str("LOG_LEVEL", &c.LogLevel)
	p.str("LOBBY_ENV", &c.Env)

	if p.err != nil {
		return Config{}, p.err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("LOBBY_ADDR must not be empty"))
	}
	if c.PingInterval <= 0 {
		errs = append(errs, errors.New("LOBBY_PING_INTERVAL must be positive"))
	}
	if c.IdleTimeout <= 0 {
		errs = append(errs, errors.New("LOBBY_IDLE_TIMEOUT must be positive"))
	}
	if c.WriteTimeout <= 0 {
		errs = append(errs, errors.New("LOBBY_WRITE_TIMEOUT must be positive"))
	}
	if c.MaxFrameSize <= 0 {
		errs = append(errs, errors.New("LOBBY_MAX_FRAME_BYTES must be positive"))
	}
	if c.OutboxSize <= 0 {
		errs = append(errs, errors.New("LOBBY_OUTBOX_SIZE must be positive"))
	}
	return errors.Join(errs...)
}

// parser keeps the first error it sees.
type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) get(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (p *parser) fail(key, raw string, err error) {
	p.err = fmt.Errorf("invalid %s=%q: %w", key, raw, err)
}

func (p *parser) str(key string, dst *string) {
	if v, ok := p.get(key); ok {
		*dst = v
	}
}

func (p *parser) duration(key string, dst *time.Duration) {
	if v, ok := p.get(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = d
	}
}

func (p *parser) int(key string, dst *int) {
	if v, ok := p.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (p *parser) int64(key string, dst *int64) {
	if v, ok := p.get(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (p *parser) bool(key string, dst *bool) {
	if v, ok := p.get(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = b
	}
}
