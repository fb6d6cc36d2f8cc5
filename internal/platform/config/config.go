package config

import (
	"bytes"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config is the full service configuration.
//
// Values are read from an optional TOML file and then overridden by environment
// variables, so deployment secrets can stay out of the file.
type Config struct {
	Port       string           `toml:"port"`
	BasicAuth  BasicAuthConfig  `toml:"basic_auth"`
	Storage    StorageConfig    `toml:"storage"`
	RateLimit  RateLimitConfig  `toml:"rate_limit"`
	Log        LogConfig        `toml:"log"`
	Membership MembershipConfig `toml:"membership"`
}

// BasicAuthConfig holds the single credential pair the policy step authenticates with.
//
// PasswordHash is a bcrypt hash and takes precedence over Password. Password is compared
// as plaintext and must not be used outside local development.
type BasicAuthConfig struct {
	Username     string `toml:"username"`
	Password     string `toml:"password"`
	PasswordHash string `toml:"password_hash"`
	Realm        string `toml:"realm"`
}

type StorageConfig struct {
	// Backend is "memory" or "postgres".
	Backend        string `toml:"backend"`
	DatabaseURL    string `toml:"database_url"`
	IdempotencyTTL string `toml:"idempotency_ttl"`

	// Pool tuning for the postgres backend. Zero or empty keeps the driver default.
	MaxConns          int32  `toml:"max_conns"`
	MinConns          int32  `toml:"min_conns"`
	MaxConnLifetime   string `toml:"max_conn_lifetime"`
	HealthCheckPeriod string `toml:"health_check_period"`
	ConnectTimeout    string `toml:"connect_timeout"`
}

// PoolConfig is StorageConfig's pool tuning with durations parsed.
type PoolConfig struct {
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	HealthCheckPeriod time.Duration
	ConnectTimeout    time.Duration
}

type RateLimitConfig struct {
	// RPS <= 0 disables rate limiting.
	RPS   float64 `toml:"rps"`
	Burst int     `toml:"burst"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type MembershipConfig struct {
	TimeZone   string `toml:"time_zone"`
	WindowDays int    `toml:"window_days"`
}

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Default returns the configuration used when neither file nor env provides a value.
func Default() Config {
	return Config{
		Port: "8080",
		BasicAuth: BasicAuthConfig{
			Realm: "store-membership",
		},
		Storage: StorageConfig{
			Backend:        BackendMemory,
			IdempotencyTTL: "24h",
		},
		RateLimit: RateLimitConfig{
			RPS:   0,
			Burst: 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Membership: MembershipConfig{
			TimeZone:   "UTC",
			WindowDays: 90,
		},
	}
}

// Load reads path (when non-empty) and then applies environment overrides.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

// LoadFromEnv is Load with the file path taken from CONFIG_FILE.
func LoadFromEnv() (Config, error) {
	return Load(os.Getenv("CONFIG_FILE"))
}

type lookupFunc func(string) (string, bool)

func load(path string, lookup lookupFunc) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config file %s", path)
	}
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return errors.Wrapf(err, "decode config file %s", path)
	}
	return nil
}

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &cfg.Port)
	str("BASIC_AUTH_USERNAME", &cfg.BasicAuth.Username)
	str("BASIC_AUTH_PASSWORD", &cfg.BasicAuth.Password)
	str("BASIC_AUTH_PASSWORD_HASH", &cfg.BasicAuth.PasswordHash)
	str("BASIC_AUTH_REALM", &cfg.BasicAuth.Realm)
	str("STORAGE_BACKEND", &cfg.Storage.Backend)
	str("DATABASE_URL", &cfg.Storage.DatabaseURL)
	str("IDEMPOTENCY_TTL", &cfg.Storage.IdempotencyTTL)
	str("DATABASE_MAX_CONN_LIFETIME", &cfg.Storage.MaxConnLifetime)
	str("DATABASE_HEALTH_CHECK_PERIOD", &cfg.Storage.HealthCheckPeriod)
	str("DATABASE_CONNECT_TIMEOUT", &cfg.Storage.ConnectTimeout)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("MEMBERSHIP_TIME_ZONE", &cfg.Membership.TimeZone)

	if v, ok := lookup("RATE_LIMIT_RPS"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(err, "RATE_LIMIT_RPS must be a number")
		}
		cfg.RateLimit.RPS = f
	}
	if v, ok := lookup("RATE_LIMIT_BURST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "RATE_LIMIT_BURST must be an integer")
		}
		cfg.RateLimit.Burst = n
	}
	for key, dst := range map[string]*int32{
		"DATABASE_MAX_CONNS": &cfg.Storage.MaxConns,
		"DATABASE_MIN_CONNS": &cfg.Storage.MinConns,
	} {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.ParseInt(v, 10, 32)
			if err != nil {
				return errors.Wrapf(err, "%s must be an integer", key)
			}
			*dst = int32(n)
		}
	}
	if v, ok := lookup("MEMBERSHIP_WINDOW_DAYS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "MEMBERSHIP_WINDOW_DAYS must be an integer")
		}
		cfg.Membership.WindowDays = n
	}
	return nil
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("port must not be empty")
	}
	if c.BasicAuth.Username == "" {
		return errors.New("missing basic auth username (BASIC_AUTH_USERNAME)")
	}
	if c.BasicAuth.Password == "" && c.BasicAuth.PasswordHash == "" {
		return errors.New("missing basic auth secret: set BASIC_AUTH_PASSWORD_HASH (or BASIC_AUTH_PASSWORD for local use)")
	}
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if strings.TrimSpace(c.Storage.DatabaseURL) == "" {
			return errors.New("STORAGE_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return errors.Errorf("unknown storage backend %q (expected memory|postgres)", c.Storage.Backend)
	}
	if _, err := c.IdempotencyTTL(); err != nil {
		return err
	}
	if _, err := c.Pool(); err != nil {
		return err
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		return errors.New("rate limit burst must be positive when rps is set")
	}
	if c.Membership.WindowDays <= 0 {
		return errors.New("membership window_days must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// IdempotencyTTL parses Storage.IdempotencyTTL. Zero disables pruning.
func (c Config) IdempotencyTTL() (time.Duration, error) {
	if c.Storage.IdempotencyTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Storage.IdempotencyTTL)
	if err != nil {
		return 0, errors.Wrap(err, "IDEMPOTENCY_TTL must be a duration (e.g. 24h)")
	}
	if d < 0 {
		return 0, errors.New("IDEMPOTENCY_TTL must not be negative")
	}
	return d, nil
}

// Pool parses the postgres pool tuning.
func (c Config) Pool() (PoolConfig, error) {
	s := c.Storage
	if s.MaxConns < 0 || s.MinConns < 0 {
		return PoolConfig{}, errors.New("database pool sizes must not be negative")
	}
	if s.MaxConns > 0 && s.MinConns > s.MaxConns {
		return PoolConfig{}, errors.Errorf("database min_conns (%d) exceeds max_conns (%d)", s.MinConns, s.MaxConns)
	}
	pc := PoolConfig{MaxConns: s.MaxConns, MinConns: s.MinConns}
	for _, d := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"max_conn_lifetime", s.MaxConnLifetime, &pc.MaxConnLifetime},
		{"health_check_period", s.HealthCheckPeriod, &pc.HealthCheckPeriod},
		{"connect_timeout", s.ConnectTimeout, &pc.ConnectTimeout},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return PoolConfig{}, errors.Wrapf(err, "database %s must be a duration", d.name)
		}
		if v < 0 {
			return PoolConfig{}, errors.Errorf("database %s must not be negative", d.name)
		}
		*d.dst = v
	}
	return pc, nil
}

// Location resolves Membership.TimeZone.
func (c Config) Location() (*time.Location, error) {
	tz := c.Membership.TimeZone
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid membership time zone %q", tz)
	}
	return loc, nil
}
