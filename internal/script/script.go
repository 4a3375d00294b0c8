// Package script plays whitespace-separated move tokens from a file or
// stream until the "quit" token.
package script

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/hailam/chessrelay/internal/board"
	"github.com/hailam/chessrelay/internal/render"
)

// QuitToken ends a script.
const QuitToken = "quit"

// Player is the game a script plays against.
type Player interface {
	Play(m board.Move) (board.Outcome, error)
	Snapshot() *board.Board
}

// Result summarizes a run.
type Result struct {
	Applied     int    // moves that committed or now await a selector
	Rejected    int    // well-formed moves the board refused
	Invalid     int    // tokens that did not parse
	Quit        bool   // the quit token was read
	Fingerprint uint32 // fingerprint of the final position
}

// Runner plays scripts. Out receives a report after every token; Verbose adds
// the board diagram to it.
type Runner struct {
	Out     io.Writer
	Log     *log.Logger
	Verbose bool
}

// NewReader decodes script text. A UTF-16 byte order mark selects UTF-16;
// anything else is read as UTF-8 with any UTF-8 mark removed.
func NewReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// RunFile plays the script at path.
func (rn *Runner) RunFile(path string, p Player) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()
	return rn.Run(f, p)
}

// Run plays every token from r against p. Bad tokens and refused moves are
// reported and skipped; only read errors stop the run early.
func (rn *Runner) Run(r io.Reader, p Player) (Result, error) {
	logger := rn.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	out := rn.Out
	if out == nil {
		out = io.Discard
	}

	var res Result
	scanner := bufio.NewScanner(NewReader(r))
	scanner.Split(bufio.ScanWords)

	for scanner.Scan() {
		tok := scanner.Text()
		if tok == QuitToken {
			res.Quit = true
			break
		}

		from, to, promo, err := board.ParseMove(tok)
		if err != nil {
			res.Invalid++
			fmt.Fprintf(out, "invalid argument: %v\n", err)
			continue
		}

		outcome, err := p.Play(board.Move{From: from, To: to, Promotion: promo})
		if outcome == board.Rejected {
			res.Rejected++
			logger.Printf("script: %s rejected: %v", tok, err)
			fmt.Fprintf(out, "Invalid move: %v\n", err)
		} else {
			res.Applied++
		}

		b := p.Snapshot()
		fmt.Fprintln(out, b.Fingerprint())
		if rn.Verbose {
			fmt.Fprint(out, render.Text(b))
		}
	}

	res.Fingerprint = p.Snapshot().Fingerprint()
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("script: %w", err)
	}
	return res, nil
}
