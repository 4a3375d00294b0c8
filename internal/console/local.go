package console

import (
	"fmt"

	"github.com/hailam/chessrelay/internal/board"
)

// Game is the board a console plays on. Moves are serialized by the
// implementation; Snapshot returns a copy safe to read.
type Game interface {
	Play(m board.Move) (board.Outcome, error)
	Snapshot() *board.Board
	History() (startFEN string, moves []string)
}

// Loader is implemented by games whose position may be replaced.
type Loader interface {
	Load(startFEN string, moves []string) error
}

// Local is a game played on a single board in this process.
type Local struct {
	b     *board.Board
	start string
	moves []string
}

// NewLocal returns a game at the standard starting position.
func NewLocal() *Local {
	return &Local{b: board.NewBoard(), start: board.StartFEN}
}

// Play applies m and records it unless it was rejected.
func (l *Local) Play(m board.Move) (board.Outcome, error) {
	out, err := l.b.Play(m)
	if out != board.Rejected {
		l.moves = append(l.moves, m.String())
	}
	return out, err
}

// Snapshot returns a copy of the current board.
func (l *Local) Snapshot() *board.Board {
	return l.b.Clone()
}

// History returns the start position and the accepted moves.
func (l *Local) History() (string, []string) {
	return l.start, append([]string(nil), l.moves...)
}

// Load replaces the game with startFEN followed by moves. Nothing changes if
// any move is rejected.
func (l *Local) Load(startFEN string, moves []string) error {
	b, err := board.ParseFEN(startFEN)
	if err != nil {
		return err
	}
	for i, tok := range moves {
		from, to, promo, err := board.ParseMove(tok)
		if err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
		if out, err := b.ApplyMove(from, to, promo); out == board.Rejected {
			return fmt.Errorf("move %d %s: %w", i+1, tok, err)
		}
	}
	l.b = b
	l.start = startFEN
	l.moves = append([]string(nil), moves...)
	return nil
}
