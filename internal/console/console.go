// Package console implements the line-oriented command interface.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/hailam/chessrelay/internal/board"
	"github.com/hailam/chessrelay/internal/render"
	"github.com/hailam/chessrelay/internal/storage"
)

var (
	ErrNoStorage   = errors.New("no game storage configured")
	ErrNotLoadable = errors.New("position cannot be replaced in this game")
	ErrUsage       = errors.New("usage")
)

// Console reads commands and move tokens and reports on an io.Writer.
type Console struct {
	game  Game
	store *storage.Storage
	out   io.Writer
	log   *log.Logger

	lastErr error
}

// New creates a console over game. store may be nil, which disables the
// save, load, games and find commands.
func New(game Game, store *storage.Storage, out io.Writer, logger *log.Logger) *Console {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Console{game: game, store: store, out: out, log: logger}
}

// Run executes commands from r until quit or end of input.
func (c *Console) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		if c.Execute(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// Board returns a copy of the current board.
func (c *Console) Board() *board.Board {
	return c.game.Snapshot()
}

// LastError returns the error of the most recent command, or nil.
func (c *Console) LastError() error {
	return c.lastErr
}

// Execute runs one command line and reports whether it asked to quit.
func (c *Console) Execute(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	parts := strings.Fields(line)
	cmd := parts[0]
	args := parts[1:]

	var err error
	switch cmd {
	case "quit":
		return true
	case "move":
		if len(args) != 1 {
			err = fmt.Errorf("%w: move <token>", ErrUsage)
			break
		}
		err = c.handleMove(args[0])
	case "show", "d":
		c.handleShow()
	case "fen":
		fmt.Fprintln(c.out, c.game.Snapshot().FEN())
	case "hash":
		fmt.Fprintf(c.out, "%08x\n", c.game.Snapshot().Fingerprint())
	case "turn":
		c.handleTurn()
	case "moves":
		c.handleMoves()
	case "new":
		err = c.load(board.StartFEN, nil)
	case "position":
		err = c.handlePosition(args)
	case "undo":
		err = c.handleUndo()
	case "save":
		err = c.handleSave(args)
	case "load":
		err = c.handleLoad(args)
	case "games":
		err = c.handleGames()
	case "find":
		err = c.handleFind()
	case "png":
		err = c.handlePNG(args)
	default:
		// Anything else is a move token.
		err = c.handleMove(cmd)
	}

	c.lastErr = err
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
	return false
}

// handleMove parses a token and plays it.
func (c *Console) handleMove(tok string) error {
	from, to, promo, err := board.ParseMove(tok)
	if err != nil {
		return err
	}
	out, err := c.game.Play(board.Move{From: from, To: to, Promotion: promo})
	if err != nil {
		return err
	}
	if out == board.AwaitingPromotion {
		fmt.Fprintf(c.out, "promote %s: =Q =R =B =N\n", to)
		return nil
	}
	fmt.Fprintf(c.out, "ok %08x\n", c.game.Snapshot().Fingerprint())
	return nil
}

func (c *Console) handleShow() {
	b := c.game.Snapshot()
	fmt.Fprint(c.out, render.Text(b))
	fmt.Fprintf(c.out, "Turn: %s  Castling: %s  En passant: %s\n", b.Turn(), b.CastleRights(), b.EnPassantTarget())
	if sq := b.PendingPromotion(); sq != board.NoSquare {
		fmt.Fprintf(c.out, "Promotion pending on %s\n", sq)
	}
	fmt.Fprintf(c.out, "Fingerprint: %08x\n", b.Fingerprint())
}

func (c *Console) handleTurn() {
	b := c.game.Snapshot()
	s := b.Turn().String()
	if b.InCheck() {
		s += " (check)"
	}
	fmt.Fprintln(c.out, s)
}

func (c *Console) handleMoves() {
	moves := c.game.Snapshot().LegalMoves()
	toks := make([]string, len(moves))
	for i, m := range moves {
		toks[i] = m.String()
	}
	fmt.Fprintln(c.out, strings.Join(toks, " "))
}

// handlePosition sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (c *Console) handlePosition(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: position startpos|fen <fen> [moves ...]", ErrUsage)
	}

	// Find "moves" keyword
	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}
	var moves []string
	if movesAt < len(args) {
		moves = args[movesAt+1:]
	}

	switch args[0] {
	case "startpos":
		return c.load(board.StartFEN, moves)
	case "fen":
		return c.load(strings.Join(args[1:movesAt], " "), moves)
	default:
		return fmt.Errorf("%w: position startpos|fen <fen> [moves ...]", ErrUsage)
	}
}

func (c *Console) handleUndo() error {
	start, moves := c.game.History()
	if len(moves) == 0 {
		return errors.New("nothing to undo")
	}
	return c.load(start, moves[:len(moves)-1])
}

func (c *Console) load(start string, moves []string) error {
	l, ok := c.game.(Loader)
	if !ok {
		return ErrNotLoadable
	}
	if err := l.Load(start, moves); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "ok %08x\n", c.game.Snapshot().Fingerprint())
	return nil
}

func (c *Console) handleSave(args []string) error {
	if c.store == nil {
		return ErrNoStorage
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: save <id>", ErrUsage)
	}
	start, moves := c.game.History()
	rec := storage.NewRecord(args[0], start, moves, c.game.Snapshot())
	if err := c.store.SaveGame(rec); err != nil {
		return err
	}
	c.log.Printf("saved game %s (%d moves)", rec.ID, len(rec.Moves))
	fmt.Fprintf(c.out, "saved %s\n", rec.ID)
	return nil
}

func (c *Console) handleLoad(args []string) error {
	if c.store == nil {
		return ErrNoStorage
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: load <id>", ErrUsage)
	}
	rec, err := c.store.LoadGame(args[0])
	if err != nil {
		return err
	}
	if _, err := storage.Replay(rec); err != nil {
		return err
	}
	start := rec.StartFEN
	if start == "" {
		start = board.StartFEN
	}
	return c.load(start, rec.Moves)
}

func (c *Console) handleGames() error {
	if c.store == nil {
		return ErrNoStorage
	}
	recs, err := c.store.ListGames()
	if err != nil {
		return err
	}
	for _, rec := range recs {
		fmt.Fprintf(c.out, "%s %08x %d moves\n", rec.ID, rec.Fingerprint, len(rec.Moves))
	}
	return nil
}

// handleFind lists saved games that ended in the current layout.
func (c *Console) handleFind() error {
	if c.store == nil {
		return ErrNoStorage
	}
	ids, err := c.store.FindByFingerprint(c.game.Snapshot().Fingerprint())
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, strings.Join(ids, " "))
	return nil
}

func (c *Console) handlePNG(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: png <path>", ErrUsage)
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := render.PNG(f, c.game.Snapshot(), render.DefaultOptions()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "wrote %s\n", args[0])
	return nil
}
