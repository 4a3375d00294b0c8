package config

import (
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chessrelay/internal/netplay"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse(nil, env(nil))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("Parse(nil) mismatch (-want +got):\n%s", diff)
	}
	if c.Mode() != ModeConsole {
		t.Errorf("Mode() = %s, want console", c.Mode())
	}
}

func TestParseModes(t *testing.T) {
	tests := []struct {
		args []string
		want Mode
	}{
		{[]string{"-script", "moves.txt", "-v", "-png", "out.png"}, ModeScript},
		{[]string{"-host", ":5000", "-uid", "42", "-tui"}, ModeHost},
		{[]string{"-join", "AAAAAAAAAAA"}, ModeJoin},
		{[]string{"-export", "games.parquet", "-workers", "2"}, ModeExport},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			c, err := Parse(tt.args, env(nil))
			if err != nil {
				t.Fatal(err)
			}
			if c.Mode() != tt.want {
				t.Errorf("Mode() = %s, want %s", c.Mode(), tt.want)
			}
		})
	}
}

func TestParseEnvFallback(t *testing.T) {
	vars := map[string]string{EnvDB: "/var/lib/chessrelay", EnvCPUProfile: "cpu.out"}

	c, err := Parse(nil, env(vars))
	if err != nil {
		t.Fatal(err)
	}
	if c.DB != "/var/lib/chessrelay" || c.CPUProfile != "cpu.out" {
		t.Errorf("DB, CPUProfile = %q, %q", c.DB, c.CPUProfile)
	}

	c, err = Parse([]string{"-db", "here"}, env(vars))
	if err != nil {
		t.Fatal(err)
	}
	if c.DB != "here" {
		t.Errorf("flag should win over env, DB = %q", c.DB)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"two modes", []string{"-script", "a", "-host", ":1"}, ErrConflictingModes},
		{"uid zero", []string{"-uid", "0"}, ErrInvalid},
		{"uid too big", []string{"-uid", "70000"}, ErrInvalid},
		{"bad code", []string{"-join", "nope"}, netplay.ErrInvalidCode},
		{"small png", []string{"-png-size", "10"}, ErrInvalid},
		{"no workers", []string{"-workers", "0"}, ErrInvalid},
		{"export in memory", []string{"-export", "x.parquet", "-memory"}, ErrInvalid},
		{"tui with script", []string{"-script", "a", "-tui"}, ErrInvalid},
		{"stray argument", []string{"extra"}, ErrInvalid},
		{"help", []string{"-h"}, flag.ErrHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.args, env(nil)); !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse(%q) err = %v, want %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestUsage(t *testing.T) {
	var sb strings.Builder
	Usage(&sb)
	for _, name := range []string{"-script", "-host", "-join", "-db", "-export", "-tui", "-png"} {
		if !strings.Contains(sb.String(), name) {
			t.Errorf("usage does not mention %s", name)
		}
	}
}
