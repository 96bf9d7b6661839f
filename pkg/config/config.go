package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/i18ndata/pkg/blobstore"
	"github.com/dmitrymomot/i18ndata/pkg/logger"
)

var (
	ErrParse   = errors.New("config: failed to parse environment")
	ErrInvalid = errors.New("config: invalid configuration")
)

// Table source kinds.
const (
	SourceNone     = "none"
	SourceFS       = "fs"
	SourceS3       = "s3"
	SourceRedis    = "redis"
	SourcePostgres = "postgres"
	SourcePebble   = "pebble"
)

// Server holds HTTP listener settings.
type Server struct {
	Addr              string        `env:"ADDR" envDefault:":8080"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	CheckTimeout      time.Duration `env:"CHECK_TIMEOUT" envDefault:"5s"`
	// CORSOrigins lists origins allowed to call the API from a browser.
	CORSOrigins       []string      `env:"CORS_ORIGINS" envSeparator:","`
}

// Tables selects where loadable tables come from and which data keys they
// replace. Entries in Keys are data key paths such as "messages/app@1".
type Tables struct {
	Source       string        `env:"SOURCE" envDefault:"none"`
	Dir          string        `env:"DIR" envDefault:"./tables"`
	PebbleDir    string        `env:"PEBBLE_DIR"`
	Keys         []string      `env:"KEYS" envSeparator:","`
	RefreshSpec  string        `env:"REFRESH" envDefault:"@every 5m"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
}

// Config is the daemon configuration. Every variable carries the I18ND_
// prefix, e.g. I18ND_HTTP_ADDR or I18ND_LOG_LEVEL.
type Config struct {
	HTTP     Server `envPrefix:"HTTP_"`
	Log      logger.Config
	Tables   Tables `envPrefix:"TABLES_"`
	S3       blobstore.S3Config
	Redis    blobstore.RedisConfig
	Postgres blobstore.PostgresConfig
}

// Load parses the process environment.
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses vars instead of the process environment when vars is not nil.
func LoadFrom(vars map[string]string) (Config, error) {
	opts := env.Options{Prefix: "I18ND_"}
	if vars != nil {
		opts.Environment = vars
	}
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, errors.Join(ErrParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the cross-field constraints the tags cannot express.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("http addr is empty"))
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}

	kinds := []string{SourceNone, SourceFS, SourceS3, SourceRedis, SourcePostgres, SourcePebble}
	if !slices.Contains(kinds, c.Tables.Source) {
		errs = append(errs, fmt.Errorf("unknown table source %q", c.Tables.Source))
	}
	switch c.Tables.Source {
	case SourceFS:
		if c.Tables.Dir == "" {
			errs = append(errs, errors.New("fs table source needs a directory"))
		}
	case SourceS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("s3 table source needs a bucket"))
		}
	case SourceRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("redis table source needs a url"))
		}
	case SourcePostgres:
		if c.Postgres.ConnectionString == "" {
			errs = append(errs, errors.New("postgres table source needs a connection string"))
		}
	case SourcePebble:
		if c.Tables.PebbleDir == "" {
			errs = append(errs, errors.New("pebble table source needs a directory"))
		}
	}
	if c.Tables.Source != SourceNone && len(c.Tables.Keys) == 0 {
		errs = append(errs, errors.New("table source set without any table keys"))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalid}, errs...)...)
	}
	return nil
}

// Mirrored reports whether remote tables are mirrored into a local Pebble
// database. The pebble source itself is never mirrored.
func (c Config) Mirrored() bool {
	return c.Tables.PebbleDir != "" && c.Tables.Source != SourcePebble && c.Tables.Source != SourceNone
}
