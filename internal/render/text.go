// Package render draws boards as text diagrams and PNG images.
package render

import (
	"strconv"
	"strings"

	"github.com/hailam/chessrelay/internal/board"
)

// Text returns the board as a diagram with rank 8 on top, each row followed
// by its rank label and a file footer:
//
//	r n b q k b n r | 8
//	...
//	R N B Q K B N R | 1
//	----------------|--
//	A B C D E F G H |
func Text(b *board.Board) string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			s, err := b.Symbol(board.NewSquare(file, rank))
			if err != nil {
				s = '?'
			}
			sb.WriteByte(s)
			sb.WriteByte(' ')
		}
		sb.WriteString("| ")
		sb.WriteString(strconv.Itoa(rank + 1))
		sb.WriteByte('\n')
	}
	sb.WriteString("----------------|--\n")
	sb.WriteString("A B C D E F G H |  \n")
	return sb.String()
}
