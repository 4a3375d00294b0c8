// Package config holds the command-line settings of chessrelay.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"

	"github.com/hailam/chessrelay/internal/netplay"
)

// Environment variables consulted when the matching flag is not given.
const (
	EnvDB         = "CHESSRELAY_DB"
	EnvCPUProfile = "CPUPROFILE"
)

var (
	ErrConflictingModes = errors.New("choose at most one of -script, -host, -join, -export")
	ErrInvalid          = errors.New("invalid configuration")
)

// Mode is what the program does once started.
type Mode int

const (
	ModeConsole Mode = iota
	ModeScript
	ModeHost
	ModeJoin
	ModeExport
)

func (m Mode) String() string {
	switch m {
	case ModeScript:
		return "script"
	case ModeHost:
		return "host"
	case ModeJoin:
		return "join"
	case ModeExport:
		return "export"
	}
	return "console"
}

// Config is the parsed command line.
type Config struct {
	Script  string // move script to play
	Host    string // listen address when hosting
	Join    string // game code when joining
	UID     uint   // game id offered by the host
	Export  string // parquet file to export saved games to
	Workers int64  // parquet writer and reader goroutines

	DB       string // badger directory; empty means the platform data dir
	InMemory bool   // keep saved games in memory only

	TUI     bool
	PNG     string // write the final board here
	PNGSize int
	Flip    bool
	Verbose bool

	CPUProfile string
}

// Default returns the settings used when no flags are given.
func Default() *Config {
	return &Config{
		UID:     1,
		Workers: 4,
		PNGSize: 480,
	}
}

func (c *Config) flagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("chessrelay", flag.ContinueOnError)
	fs.StringVar(&c.Script, "script", c.Script, "play move tokens from `file` until quit")
	fs.StringVar(&c.Host, "host", c.Host, "host a networked game on `addr` (e.g. 0.0.0.0:5000)")
	fs.StringVar(&c.Join, "join", c.Join, "join the networked game with this `code`")
	fs.UintVar(&c.UID, "uid", c.UID, "game id a joining player must present (1-65535)")
	fs.StringVar(&c.Export, "export", c.Export, "export saved games to a parquet `file` (a bare name goes in the archive dir)")
	fs.Int64Var(&c.Workers, "workers", c.Workers, "parquet writer goroutines")
	fs.StringVar(&c.DB, "db", c.DB, "game database `dir` (env "+EnvDB+")")
	fs.BoolVar(&c.InMemory, "memory", c.InMemory, "keep saved games in memory only")
	fs.BoolVar(&c.TUI, "tui", c.TUI, "use the terminal board view")
	fs.StringVar(&c.PNG, "png", c.PNG, "write the final board as a PNG `file`")
	fs.IntVar(&c.PNGSize, "png-size", c.PNGSize, "PNG edge length in pixels")
	fs.BoolVar(&c.Flip, "flip", c.Flip, "draw the PNG from Black's side")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "print the board after every scripted move")
	fs.StringVar(&c.CPUProfile, "cpuprofile", c.CPUProfile, "write cpu profile to `file` (env "+EnvCPUProfile+")")
	return fs
}

// Parse builds a Config from command-line arguments, falling back to getenv
// for settings that have an environment variable.
func Parse(args []string, getenv func(string) string) (*Config, error) {
	c := Default()
	fs := c.flagSet()
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrInvalid, fs.Arg(0))
	}

	if getenv != nil {
		if c.DB == "" {
			c.DB = getenv(EnvDB)
		}
		if c.CPUProfile == "" {
			c.CPUProfile = getenv(EnvCPUProfile)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Usage writes the flag descriptions to w.
func Usage(w io.Writer) {
	fs := Default().flagSet()
	fs.SetOutput(w)
	fmt.Fprintln(w, "Usage: chessrelay [flags]")
	fs.PrintDefaults()
}

// Mode reports which mode the flags select.
func (c *Config) Mode() Mode {
	switch {
	case c.Script != "":
		return ModeScript
	case c.Host != "":
		return ModeHost
	case c.Join != "":
		return ModeJoin
	case c.Export != "":
		return ModeExport
	}
	return ModeConsole
}

// Validate checks the settings for conflicts and out-of-range values.
func (c *Config) Validate() error {
	n := 0
	for _, s := range []string{c.Script, c.Host, c.Join, c.Export} {
		if s != "" {
			n++
		}
	}
	if n > 1 {
		return ErrConflictingModes
	}

	if c.UID == 0 || c.UID > math.MaxUint16 {
		return fmt.Errorf("%w: uid %d out of range", ErrInvalid, c.UID)
	}
	if c.Join != "" {
		if _, err := netplay.DecodeCode(c.Join); err != nil {
			return err
		}
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalid)
	}
	if c.PNGSize < 64 {
		return fmt.Errorf("%w: png-size %d is below 64", ErrInvalid, c.PNGSize)
	}
	if c.Export != "" && c.InMemory {
		return fmt.Errorf("%w: -export reads the on-disk database, drop -memory", ErrInvalid)
	}
	if c.TUI && (c.Script != "" || c.Export != "") {
		return fmt.Errorf("%w: -tui works with the console, -host and -join", ErrInvalid)
	}
	return nil
}
