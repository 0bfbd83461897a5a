package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/solver"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !cfg.Analysis.Strict || cfg.Analysis.DefaultGain != 2 {
		t.Errorf("analysis defaults = %+v", cfg.Analysis)
	}
	if cfg.Cache.TTL.Duration != time.Hour {
		t.Errorf("ttl = %v", cfg.Cache.TTL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyzer.toml")
	data := `
[analysis]
s = "0+6.283j"
strict = false
solver = "sparse"

[cache]
redis_url = "redis://localhost:6379/0"
ttl = "15m"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s, err := cfg.Analysis.ComplexS()
	if err != nil || s != complex(0, 6.283) {
		t.Errorf("s = %v, %v", s, err)
	}
	if cfg.Cache.TTL.Duration != 15*time.Minute {
		t.Errorf("ttl = %v", cfg.Cache.TTL)
	}
	if cfg.Log.LogLevel() != log.DebugLevel {
		t.Errorf("level = %v", cfg.Log.LogLevel())
	}
	// Untouched keys keep their defaults.
	if cfg.Analysis.DefaultGain != 2 || cfg.Store.Collection != "analyses" {
		t.Errorf("defaults lost: %+v %+v", cfg.Analysis, cfg.Store)
	}

	opts, err := cfg.Analysis.Options(nil)
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if !opts.Lenient || opts.Solver.Name() != solver.SparseName {
		t.Errorf("options = %+v", opts)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[analysis\n"},
		{"unknown key", "[analysis]\nfrequency = 3\n"},
		{"bad s", "[analysis]\ns = \"one\"\n"},
		{"bad solver", "[analysis]\nsolver = \"qr\"\n"},
		{"bad level", "[log]\nlevel = \"loud\"\n"},
		{"empty addr", "[server]\naddr = \"\"\n"},
		{"mongo without database", "[store]\nmongo_uri = \"mongodb://x\"\ndatabase = \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Parse([]byte(tt.data), Default())
			if !cerrors.Is(err, cerrors.ErrCodeInvalidInput) {
				t.Fatalf("err = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestComplexS(t *testing.T) {
	tests := []struct {
		in   string
		want complex128
	}{
		{"", 1},
		{"1", 1},
		{"2.5", 2.5},
		{"0+1j", 1i},
		{"1 - 2j", complex(1, -2)},
	}
	for _, tt := range tests {
		got, err := Analysis{S: tt.in}.ComplexS()
		if err != nil || got != tt.want {
			t.Errorf("ComplexS(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}
