package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/guild/pkg/httpx"
	"github.com/caarlos0/env/v11"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env                  string        `env:"ENV"                   envDefault:"dev"`
	LogLevel             string        `env:"LOG_LEVEL"             envDefault:"info"`
	LogFormat            string        `env:"LOG_FORMAT"            envDefault:"json"`
	Port                 int           `env:"PORT"                  envDefault:"8080"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	// DatabaseDriver is sqlite (DatabaseFile) or postgres (DatabaseURL).
	DatabaseDriver string `env:"GUILD_DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseFile   string `env:"GUILD_DATABASE_FILE"   envDefault:"guild.db"`
	DatabaseURL    string `env:"GUILD_DATABASE_URL"`
	PepperFile     string `env:"GUILD_PEPPER_FILE"     envDefault:"pepper"`

	InvitationTTL     time.Duration `env:"GUILD_INVITATION_TTL"      envDefault:"168h"`
	PasswordMinLength int           `env:"GUILD_PASSWORD_MIN_LENGTH" envDefault:"10"`
	RetryMax          uint64        `env:"GUILD_RETRY_MAX"           envDefault:"3"`

	JWTIssuer   string   `env:"GUILD_JWT_ISSUER"   envDefault:"http://localhost:8081"`
	JWTAudience []string `env:"GUILD_JWT_AUDIENCE" envDefault:"guild" envSeparator:","`
	JWKSFile    string   `env:"GUILD_JWKS_FILE"    envDefault:"jwks.json"`

	// PublicURL is where applicants land from their invitation email.
	PublicURL string     `env:"GUILD_PUBLIC_URL" envDefault:"http://localhost:8080"`
	SMTP      SMTPConfig `envPrefix:"GUILD_SMTP_"`

	// RedisURL, when set, mirrors every notification onto a Redis stream.
	RedisURL          string `env:"GUILD_REDIS_URL"`
	RedisStream       string `env:"GUILD_REDIS_STREAM"        envDefault:"guild:notifications"`
	RedisStreamMaxLen int64  `env:"GUILD_REDIS_STREAM_MAXLEN" envDefault:"10000"`

	NotifyBuffer  int `env:"GUILD_NOTIFY_BUFFER"  envDefault:"256"`
	NotifyWorkers int `env:"GUILD_NOTIFY_WORKERS" envDefault:"2"`

	RateLimit RateLimitConfig `envPrefix:"RATELIMIT_"`
}

// SMTPConfig enables email delivery when Host is set.
type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT"     envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"     envDefault:"guild@localhost"`
}

// RateLimitConfig overrides the limiter profiles, e.g.
// RATELIMIT_STRICT_REQUESTS=5 RATELIMIT_STRICT_WINDOW_SEC=60.
type RateLimitConfig struct {
	StrictRequests  int `env:"STRICT_REQUESTS"   envDefault:"10"`
	StrictWindowSec int `env:"STRICT_WINDOW_SEC" envDefault:"60"`
	StrictBurst     int `env:"STRICT_BURST"      envDefault:"10"`

	PublicRequests  int `env:"PUBLIC_REQUESTS"   envDefault:"30"`
	PublicWindowSec int `env:"PUBLIC_WINDOW_SEC" envDefault:"60"`
	PublicBurst     int `env:"PUBLIC_BURST"      envDefault:"30"`

	MemberRequests  int `env:"MEMBER_REQUESTS"   envDefault:"120"`
	MemberWindowSec int `env:"MEMBER_WINDOW_SEC" envDefault:"60"`
	MemberBurst     int `env:"MEMBER_BURST"      envDefault:"60"`
}

func (c RateLimitConfig) Strict() httpx.RateLimitConfig {
	return limit(c.StrictRequests, c.StrictWindowSec, c.StrictBurst)
}

func (c RateLimitConfig) Public() httpx.RateLimitConfig {
	return limit(c.PublicRequests, c.PublicWindowSec, c.PublicBurst)
}

func (c RateLimitConfig) Member() httpx.RateLimitConfig {
	return limit(c.MemberRequests, c.MemberWindowSec, c.MemberBurst)
}

// limit builds a profile; a zero in any field disables that limiter.
func limit(requests, windowSec, burst int) httpx.RateLimitConfig {
	return httpx.RateLimitConfig{
		RequestsPerWindow: requests,
		Window:            time.Duration(windowSec) * time.Second,
		Burst:             burst,
	}
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("GUILD_DATABASE_FILE is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("GUILD_DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("GUILD_DATABASE_DRIVER must be sqlite or postgres, got %q", c.DatabaseDriver))
	}
	if c.InvitationTTL <= 0 {
		errs = append(errs, errors.New("GUILD_INVITATION_TTL must be positive"))
	}
	if c.PasswordMinLength < 8 {
		errs = append(errs, errors.New("GUILD_PASSWORD_MIN_LENGTH must be at least 8"))
	}
	if c.JWKSFile == "" {
		errs = append(errs, errors.New("GUILD_JWKS_FILE is required"))
	}
	if len(c.JWTAudience) == 0 {
		errs = append(errs, errors.New("GUILD_JWT_AUDIENCE is required"))
	}
	return errors.Join(errs...)
}
