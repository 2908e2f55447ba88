package main

import (
	"os"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/daylog/internal/constants"
)

func TestReadOnly(t *testing.T) {
	tests := []struct {
		command string
		want    bool
	}{
		{"doctor", true},
		{"debug paths", true},
		{"keyring status", true},
		{"calendar <month>", true},
		{"day show <date>", true},
		{"todo list <date>", true},
		{"backup list", true},
		{"day set <date>", false},
		{"todo add <text>", false},
		{"backup restore <backup-file>", false},
		{"tui", false},
		{"init", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := readOnly(tt.command); got != tt.want {
			t.Errorf("readOnly(%q) = %v, want %v", tt.command, got, tt.want)
		}
	}
}

func TestFlagsReadEnvironment(t *testing.T) {
	t.Setenv(constants.EnvStorage, "/env/data")
	t.Setenv(constants.EnvPhotos, "/env/photos.db")
	t.Setenv(constants.EnvDebug, "true")
	for _, name := range []string{constants.EnvConfigDir, constants.EnvSeriesLimit} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	parser, err := kong.New(&CLI, vars())
	if err != nil {
		t.Fatalf("kong.New failed: %v", err)
	}
	if _, err := parser.Parse([]string{"doctor"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if CLI.Storage != "/env/data" || CLI.Photos != "/env/photos.db" || !CLI.Debug {
		t.Errorf("environment not applied: storage=%q photos=%q debug=%v", CLI.Storage, CLI.Photos, CLI.Debug)
	}
	if CLI.ConfigDir != constants.DefaultConfigDir {
		t.Errorf("expected default config dir, got %q", CLI.ConfigDir)
	}
	if CLI.SeriesLimit != constants.DefaultSeriesLimit {
		t.Errorf("expected default series limit, got %d", CLI.SeriesLimit)
	}
}
