package tui

import (
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/hailam/chessrelay/internal/board"
)

// cellWidth is the number of terminal columns per square.
const cellWidth = 3

// Renderer draws a board onto a screen region.
type Renderer struct {
	theme *Theme
	x, y  int
}

// NewRenderer creates a renderer whose top-left corner is at (x, y).
func NewRenderer(theme *Theme, x, y int) *Renderer {
	return &Renderer{theme: theme, x: x, y: y}
}

// Size returns the columns and rows the board occupies, labels included.
func (r *Renderer) Size() (w, h int) {
	return 2 + 8*cellWidth, 9
}

// SquareAt returns the square drawn at screen cell (col, row), or NoSquare.
func (r *Renderer) SquareAt(col, row int) board.Square {
	file := (col - r.x - 2) / cellWidth
	rank := 7 - (row - r.y)
	if col < r.x+2 || file > 7 || rank < 0 || rank > 7 {
		return board.NoSquare
	}
	return board.NewSquare(file, rank)
}

// DrawBoard draws rank 8 at the top with rank and file labels.
func (r *Renderer) DrawBoard(s tcell.Screen, b *board.Board) {
	label := r.theme.text()
	checked := board.NoSquare
	checkers := map[board.Square]bool{}
	if b.InCheck() {
		checked = b.KingSquare(b.Turn())
		for _, sq := range CheckingSquares(b) {
			checkers[sq] = true
		}
	}
	pending := b.PendingPromotion()

	for rank := 7; rank >= 0; rank-- {
		row := r.y + 7 - rank
		drawString(s, r.x, row, strconv.Itoa(rank+1)+" ", label)

		for file := 0; file < 8; file++ {
			sq := board.NewSquare(file, rank)
			st := tcell.StyleDefault.Background(r.squareColor(file, rank))
			switch sq {
			case pending:
				st = st.Background(r.theme.PendingColor)
			case checked:
				st = st.Background(r.theme.CheckColor)
			default:
				if checkers[sq] {
					st = st.Background(r.theme.CheckerColor)
				}
			}

			sym, err := b.Symbol(sq)
			if err != nil {
				sym = '?'
			}
			if _, c := b.PieceAt(sq); c == board.Black {
				st = st.Foreground(r.theme.BlackPiece)
			} else {
				st = st.Foreground(r.theme.WhitePiece)
			}
			if sym == board.EmptySymbol {
				sym = ' '
			}

			col := r.x + 2 + file*cellWidth
			s.SetContent(col, row, ' ', nil, st)
			s.SetContent(col+1, row, rune(sym), nil, st.Bold(true))
			s.SetContent(col+2, row, ' ', nil, st)
		}
	}

	for file := 0; file < 8; file++ {
		s.SetContent(r.x+2+file*cellWidth+1, r.y+8, rune('a'+file), nil, label)
	}
}

// CheckingSquares returns the squares of the pieces giving check to the side
// to move.
func CheckingSquares(b *board.Board) []board.Square {
	king := b.KingSquare(b.Turn())
	if king == board.NoSquare {
		return nil
	}
	return board.Attackers(b, king, b.Turn().Other())
}

func (r *Renderer) squareColor(file, rank int) tcell.Color {
	if (file+rank)%2 == 0 {
		return r.theme.DarkSquare
	}
	return r.theme.LightSquare
}

// drawString writes s starting at (x, y) and returns the column after it.
func drawString(scr tcell.Screen, x, y int, s string, st tcell.Style) int {
	for _, c := range s {
		scr.SetContent(x, y, c, nil, st)
		x++
	}
	return x
}
