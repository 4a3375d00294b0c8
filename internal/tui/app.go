package tui

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/hailam/chessrelay/internal/board"
	"github.com/hailam/chessrelay/internal/console"
	"github.com/hailam/chessrelay/internal/storage"
)

// outputLines is how many lines of command output stay on screen.
const outputLines = 6

// App is the terminal front end. Typed lines go to a console; the board,
// status and recent output are redrawn after every event.
type App struct {
	screen   tcell.Screen
	console  *console.Console
	renderer *Renderer
	theme    *Theme
	input    LineEditor
	out      bytes.Buffer
	lines    []string
	status   string
	statusOK bool
	selected board.Square
	log      *log.Logger
}

// New creates an app drawing on screen and playing game.
func New(screen tcell.Screen, game console.Game, store *storage.Storage, logger *log.Logger) *App {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	theme := DefaultTheme()
	a := &App{
		screen:   screen,
		renderer: NewRenderer(theme, 1, 2),
		theme:    theme,
		selected: board.NoSquare,
		log:      logger,
	}
	a.console = console.New(game, store, &a.out, logger)
	a.status = "Type a move (e2e4) or a command (show, undo, quit)"
	a.statusOK = true
	return a
}

// Console returns the console the app feeds.
func (a *App) Console() *console.Console {
	return a.console
}

// Refresh asks the event loop to redraw, showing note on the status line if
// it is not empty. It is safe to call from other goroutines.
func (a *App) Refresh(note string) {
	a.screen.PostEvent(tcell.NewEventInterrupt(note))
}

// Run draws and handles events until the user quits. The screen must
// already be initialized; Run does not finalize it.
func (a *App) Run() error {
	a.screen.EnableMouse()
	a.draw()
	for {
		switch ev := a.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			a.screen.Sync()
		case *tcell.EventKey:
			if a.handleKey(ev) {
				return nil
			}
		case *tcell.EventMouse:
			a.handleMouse(ev)
		case *tcell.EventInterrupt:
			if note, ok := ev.Data().(string); ok && note != "" {
				a.setStatus(note, true)
			}
		}
		a.draw()
	}
}

// handleKey edits the input line and reports whether to quit.
func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		a.input.Clear()
		a.selected = board.NoSquare
	case tcell.KeyEnter:
		return a.execute(a.input.Take())
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.input.Backspace()
	case tcell.KeyUp:
		a.input.Prev()
	case tcell.KeyDown:
		a.input.Next()
	case tcell.KeyRune:
		a.input.Insert(ev.Rune())
	}
	return false
}

// handleMouse plays a move by clicking its source and then its target.
func (a *App) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		return
	}
	sq := a.renderer.SquareAt(ev.Position())
	if sq == board.NoSquare {
		return
	}
	if a.selected == board.NoSquare {
		a.selected = sq
		return
	}
	from := a.selected
	a.selected = board.NoSquare
	if from != sq {
		a.execute(board.FormatMove(from, sq, board.NoPieceType))
	}
}

func (a *App) execute(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	a.out.Reset()
	quit := a.console.Execute(line)
	for _, l := range strings.Split(strings.TrimRight(a.out.String(), "\n"), "\n") {
		if l != "" {
			a.lines = append(a.lines, l)
		}
	}
	if n := len(a.lines); n > outputLines {
		a.lines = a.lines[n-outputLines:]
	}

	if err := a.console.LastError(); err != nil {
		a.log.Printf("%s: %v", line, err)
		a.setStatus(Message(err), false)
	} else {
		a.setStatus("> "+line, true)
	}
	return quit
}

func (a *App) setStatus(s string, ok bool) {
	a.status = s
	a.statusOK = ok
}

func (a *App) draw() {
	s := a.screen
	base := a.theme.text()
	s.SetStyle(base)
	s.Clear()

	drawString(s, 1, 0, "chessrelay", base.Bold(true))

	b := a.console.Board()
	a.renderer.DrawBoard(s, b)
	if a.selected != board.NoSquare {
		drawString(s, 1, 1, "from "+a.selected.String(), base)
	}

	w, _ := a.renderer.Size()
	x := 1 + w + 3
	y := 2
	turn := b.Turn().String()
	if b.InCheck() {
		turn += " (check)"
	}
	info := []string{
		"Turn:        " + turn,
		"Castling:    " + b.CastleRights().String(),
		"En passant:  " + b.EnPassantTarget().String(),
		fmt.Sprintf("Fingerprint: %08x", b.Fingerprint()),
	}
	if sq := b.PendingPromotion(); sq != board.NoSquare {
		info = append(info, "Promote on "+sq.String()+": =Q =R =B =N")
	}
	for i, l := range info {
		drawString(s, x, y+i, l, base)
	}

	_, h := a.renderer.Size()
	y = 2 + h + 1
	st := base.Foreground(a.theme.OKColor)
	if !a.statusOK {
		st = base.Foreground(a.theme.ErrorColor)
	}
	drawString(s, 1, y, a.status, st)

	for i, l := range a.lines {
		drawString(s, 1, y+2+i, l, base)
	}

	_, rows := s.Size()
	prompt := drawString(s, 1, rows-1, "> ", base.Bold(true))
	end := drawString(s, prompt, rows-1, a.input.String(), base)
	s.ShowCursor(end, rows-1)
	s.Show()
}
