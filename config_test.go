// Copyright (c) 2016-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decred/slog"
	flags "github.com/jessevdk/go-flags"
	"github.com/vbits/vbitsd/internal/versionbits"
	"github.com/vbits/vbitsd/sampleconfig"
)

// withArgs runs the provided function with the command line arguments set to
// the provided ones and restores the original arguments afterwards.
func withArgs(args []string, fn func()) {
	old := os.Args
	os.Args = append([]string{"vbitsd"}, args...)
	defer func() { os.Args = old }()
	fn()
}

// TestLoadConfig ensures the config is loaded with the expected defaults and
// that a default config file is created in the application directory.
func TestLoadConfig(t *testing.T) {
	appData := t.TempDir()
	var cfg *config
	var err error
	withArgs([]string{"--appdata=" + appData, "--nofilelogging",
		"--regnet"}, func() {
		cfg, _, err = loadConfig("vbitsd")
	})
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.params.Name != "regnet" {
		t.Fatalf("unexpected network %q", cfg.params.Name)
	}
	wantNetDir := filepath.Join(appData, defaultDataDirname, "regnet")
	if cfg.netDir != wantNetDir {
		t.Fatalf("unexpected network dir -- got %q, want %q", cfg.netDir,
			wantNetDir)
	}
	if cfg.CacheSize != versionbits.DefaultCacheSize {
		t.Fatalf("unexpected cache size %d", cfg.CacheSize)
	}
	if cfg.ForkHeight != -1 {
		t.Fatalf("unexpected fork height %d", cfg.ForkHeight)
	}
	if cfg.Rules != nil {
		t.Fatalf("unexpected rules %v", cfg.Rules)
	}
	if !fileExists(filepath.Join(appData, defaultConfigFilename)) {
		t.Fatal("default config file was not created")
	}
}

// TestLoadConfigOptions ensures options from the command line are applied and
// invalid combinations are rejected.
func TestLoadConfigOptions(t *testing.T) {
	appData := t.TempDir()
	base := []string{"--appdata=" + appData, "--nofilelogging"}

	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(*config) bool
	}{{
		name: "template options",
		args: []string{"--signal=bip135test1", "--signal=bip135test2",
			"--rules=csv"},
		check: func(cfg *config) bool {
			return len(cfg.Signal) == 2 && cfg.Signal[1] == "bip135test2" &&
				len(cfg.Rules) == 1 && cfg.Rules[0] == "csv"
		},
	}, {
		name: "generation options",
		args: []string{"--simnet", "--generate=20", "--blockversion=1",
			"--blockinterval=5s", "--forkheight=3"},
		check: func(cfg *config) bool {
			return cfg.params.Name == "simnet" && cfg.Generate == 20 &&
				cfg.BlockVersion == 1 && cfg.BlockInterval.Seconds() == 5 &&
				cfg.ForkHeight == 3
		},
	}, {
		name:    "multiple networks",
		args:    []string{"--testnet", "--regnet"},
		wantErr: true,
	}, {
		name:    "invalid cache size",
		args:    []string{"--cachesize=0"},
		wantErr: true,
	}, {
		name: "maximum cache size",
		args: []string{"--cachesize=4294967295"},
		check: func(cfg *config) bool {
			return cfg.CacheSize == math.MaxUint32
		},
	}, {
		name:    "cache size beyond 32 bits",
		args:    []string{"--cachesize=4294967296"},
		wantErr: true,
	}, {
		name:    "negative cache size",
		args:    []string{"--cachesize=-1"},
		wantErr: true,
	}, {
		name:    "negative generate",
		args:    []string{"--generate=-1"},
		wantErr: true,
	}, {
		name:    "invalid fork height",
		args:    []string{"--forkheight=-2"},
		wantErr: true,
	}, {
		name:    "invalid debug level",
		args:    []string{"--debuglevel=bogus"},
		wantErr: true,
	}, {
		name:    "unknown option",
		args:    []string{"--bogus"},
		wantErr: true,
	}}

	for _, test := range tests {
		var cfg *config
		var err error
		withArgs(append(base, test.args...), func() {
			cfg, _, err = loadConfig("vbitsd")
		})
		if (err != nil) != test.wantErr {
			t.Errorf("%q: unexpected error -- got %v, want error %v",
				test.name, err, test.wantErr)
			continue
		}
		if err == nil && test.check != nil && !test.check(cfg) {
			t.Errorf("%q: unexpected config %+v", test.name, cfg)
		}
	}
}

// TestParseAndSetDebugLevels ensures the debug level is parsed and applied to
// the subsystem loggers.
func TestParseAndSetDebugLevels(t *testing.T) {
	defer setLogLevels(defaultLogLevel)

	tests := []struct {
		name      string
		level     string
		wantErr   bool
		wantLevel map[string]slog.Level
	}{{
		name:  "global level",
		level: "debug",
		wantLevel: map[string]slog.Level{
			"VBTD": slog.LevelDebug,
			"VBTS": slog.LevelDebug,
			"MINR": slog.LevelDebug,
			"INDX": slog.LevelDebug,
		},
	}, {
		name:  "subsystem levels",
		level: "VBTS=trace,INDX=error",
		wantLevel: map[string]slog.Level{
			"VBTS": slog.LevelTrace,
			"INDX": slog.LevelError,
		},
	}, {
		name:    "invalid global level",
		level:   "loud",
		wantErr: true,
	}, {
		name:    "unknown subsystem",
		level:   "XXXX=info",
		wantErr: true,
	}, {
		name:    "invalid subsystem level",
		level:   "VBTS=loud",
		wantErr: true,
	}, {
		name:    "missing pair separator",
		level:   "VBTS=info,MINR",
		wantErr: true,
	}}

	for _, test := range tests {
		err := parseAndSetDebugLevels(test.level)
		if (err != nil) != test.wantErr {
			t.Errorf("%q: unexpected error -- got %v, want error %v",
				test.name, err, test.wantErr)
			continue
		}
		for subsysID, want := range test.wantLevel {
			got := subsystemLoggers[subsysID].Level()
			if got != want {
				t.Errorf("%q: unexpected %s level -- got %v, want %v",
					test.name, subsysID, got, want)
			}
		}
	}
}

// TestSupportedSubsystems ensures the supported subsystems are sorted.
func TestSupportedSubsystems(t *testing.T) {
	got := strings.Join(supportedSubsystems(), ",")
	if want := "INDX,MINR,VBTD,VBTS"; got != want {
		t.Fatalf("unexpected subsystems -- got %s, want %s", got, want)
	}
}

// TestCleanAndExpandPath ensures paths are cleaned and environment variables
// are expanded.
func TestCleanAndExpandPath(t *testing.T) {
	t.Setenv("VBITSD_TEST_DIR", "/tmp/vbitsd")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/a/b/../c", "/a/c"},
		{"$VBITSD_TEST_DIR/data", "/tmp/vbitsd/data"},
	}
	for _, test := range tests {
		got := cleanAndExpandPath(test.in)
		if got != filepath.FromSlash(test.want) {
			t.Errorf("cleanAndExpandPath(%q): got %q, want %q", test.in,
				got, test.want)
		}
	}
}

// TestSampleConfig ensures the sample config parses with the config options.
func TestSampleConfig(t *testing.T) {
	var cfg config
	parser := newConfigParser(&cfg, flags.Default)
	err := flags.NewIniParser(parser).Parse(strings.NewReader(
		sampleconfig.Vbitsd()))
	if err != nil {
		t.Fatalf("unable to parse sample config: %v", err)
	}
}
