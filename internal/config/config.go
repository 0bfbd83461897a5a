// Package config loads the TOML configuration shared by the CLI and the
// HTTP service.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/edp1096/circuit-analyzer/internal/consts"
	"github.com/edp1096/circuit-analyzer/pkg/analysis"
	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/solver"
)

type Config struct {
	Analysis Analysis `toml:"analysis"`
	Server   Server   `toml:"server"`
	Cache    Cache    `toml:"cache"`
	Store    Store    `toml:"store"`
	Log      Log      `toml:"log"`
}

type Analysis struct {
	S             string  `toml:"s"` // complex literal, e.g. "1" or "0+6.283j"
	DefaultGain   float64 `toml:"default_gain"`
	DefaultMutual float64 `toml:"default_mutual"`
	Strict        bool    `toml:"strict"`
	Symbolic      bool    `toml:"symbolic"`
	Solver        string  `toml:"solver"`
}

type Server struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

type Cache struct {
	RedisURL string   `toml:"redis_url"` // empty disables caching
	TTL      Duration `toml:"ttl"`
}

type Store struct {
	MongoURI   string `toml:"mongo_uri"` // empty keeps history in memory
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type Log struct {
	Level string `toml:"level"`
}

// Duration reads TOML strings such as "1h" or "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func Default() *Config {
	return &Config{
		Analysis: Analysis{
			S:             strconv.FormatFloat(consts.DefaultS, 'g', -1, 64),
			DefaultGain:   consts.DefaultGain,
			DefaultMutual: consts.DefaultMutual,
			Strict:        true,
			Symbolic:      true,
			Solver:        consts.DefaultSolver,
		},
		Server: Server{
			Addr:         consts.DefaultAddr,
			MaxBodyBytes: consts.MaxBodyBytes,
		},
		Cache: Cache{TTL: Duration{time.Hour}},
		Store: Store{
			Database:   "circuit_analyzer",
			Collection: "analyses",
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults;
// an empty path does too.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg and validates the result. Keys absent
// from data keep the values already in cfg.
func Parse(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cerrors.New(cerrors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Analysis.ComplexS(); err != nil {
		errs = append(errs, err)
	}
	if _, err := solver.New(c.Analysis.Solver); err != nil {
		errs = append(errs, err)
	}
	if c.Server.Addr == "" {
		errs = append(errs, cerrors.New(cerrors.ErrCodeInvalidInput, "server.addr must not be empty"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, cerrors.New(cerrors.ErrCodeInvalidInput, "server.max_body_bytes must be positive"))
	}
	if c.Cache.TTL.Duration < 0 {
		errs = append(errs, cerrors.New(cerrors.ErrCodeInvalidInput, "cache.ttl must not be negative"))
	}
	if c.Store.MongoURI != "" && (c.Store.Database == "" || c.Store.Collection == "") {
		errs = append(errs, cerrors.New(cerrors.ErrCodeInvalidInput, "store.database and store.collection are required with mongo_uri"))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "log.level"))
	}
	return errors.Join(errs...)
}

// ComplexS parses the configured value of s.
func (a Analysis) ComplexS() (complex128, error) {
	text := strings.ReplaceAll(strings.TrimSpace(a.S), " ", "")
	if text == "" {
		return complex(consts.DefaultS, 0), nil
	}
	// Electrical notation writes the imaginary unit as j.
	text = strings.ReplaceAll(text, "j", "i")
	v, err := strconv.ParseComplex(text, 128)
	if err != nil {
		return 0, cerrors.New(cerrors.ErrCodeInvalidInput, "analysis.s: %q is not a complex number", a.S)
	}
	return v, nil
}

// Params converts the analysis section into substitution parameters.
func (a Analysis) Params() (analysis.Params, error) {
	s, err := a.ComplexS()
	if err != nil {
		return analysis.Params{}, err
	}
	p := analysis.DefaultParams()
	p.S = s
	p.DefaultGain = a.DefaultGain
	p.DefaultMutual = a.DefaultMutual
	return p, nil
}

// Options converts the analysis section into run options.
func (a Analysis) Options(logger *log.Logger) (analysis.Options, error) {
	slv, err := solver.New(a.Solver)
	if err != nil {
		return analysis.Options{}, err
	}
	return analysis.Options{
		Logger:   logger,
		Lenient:  !a.Strict,
		Symbolic: a.Symbolic,
		Solver:   slv,
	}, nil
}

// LogLevel returns the configured level, falling back to info.
func (l Log) LogLevel() log.Level {
	level, err := log.ParseLevel(l.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
