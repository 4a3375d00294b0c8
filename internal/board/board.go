package board

import (
	"fmt"
	"strings"
)

// CastleRights represents the available castling options.
type CastleRights uint8

const (
	WhiteKingSide  CastleRights = 1 << iota // K
	WhiteQueenSide                          // Q
	BlackKingSide                           // k
	BlackQueenSide                          // q
	NoCastling     CastleRights = 0
	AllCastling    CastleRights = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// String returns the FEN castling rights string.
func (cr CastleRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSide != 0 {
		s += "K"
	}
	if cr&WhiteQueenSide != 0 {
		s += "Q"
	}
	if cr&BlackKingSide != 0 {
		s += "k"
	}
	if cr&BlackQueenSide != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastleRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

// castleRight returns the single flag for a color and direction.
func castleRight(c Color, kingSide bool) CastleRights {
	switch {
	case c == White && kingSide:
		return WhiteKingSide
	case c == White:
		return WhiteQueenSide
	case kingSide:
		return BlackKingSide
	default:
		return BlackQueenSide
	}
}

// Home squares used by castling and rights tracking.
var (
	kingHome      = [2]Square{E1, E8}
	rookHomeKing  = [2]Square{H1, H8}
	rookHomeQueen = [2]Square{A1, A8}
)

// backRank is the starting layout of the first rank, file a to h.
var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Board is the complete game state. Each color owns one plane mapping a
// square to the kind of piece it has there; a square is occupied by a color
// iff its plane holds something other than NoPieceType there.
//
// Board values are comparable with ==, which compares every field.
type Board struct {
	planes     [2][64]PieceType
	sideToMove Color
	castle     CastleRights
	enPassant  Square // square skipped by the last double pawn advance, NoSquare if none

	// A pawn that reached the last rank without a selector waits here.
	pending     Square
	pendingFrom Square
}

// NewBoard creates the standard starting position.
func NewBoard() *Board {
	b := newEmptyBoard()
	for file := 0; file < 8; file++ {
		b.planes[White][NewSquare(file, 0)] = backRank[file]
		b.planes[White][NewSquare(file, 1)] = Pawn
		b.planes[Black][NewSquare(file, 6)] = Pawn
		b.planes[Black][NewSquare(file, 7)] = backRank[file]
	}
	b.castle = AllCastling
	return b
}

// newEmptyBoard returns a board with no pieces and White to move.
func newEmptyBoard() *Board {
	return &Board{
		sideToMove:  White,
		enPassant:   NoSquare,
		pending:     NoSquare,
		pendingFrom: NoSquare,
	}
}

// Clone creates a deep copy of the board.
func (b *Board) Clone() *Board {
	nb := *b
	return &nb
}

// Turn returns the side to move.
func (b *Board) Turn() Color {
	return b.sideToMove
}

// CastleRights returns the remaining castling rights.
func (b *Board) CastleRights() CastleRights {
	return b.castle
}

// EnPassantTarget returns the square a double-advancing pawn just skipped,
// or NoSquare.
func (b *Board) EnPassantTarget() Square {
	return b.enPassant
}

// PendingPromotion returns the square of a pawn awaiting its promotion
// selector, or NoSquare.
func (b *Board) PendingPromotion() Square {
	return b.pending
}

// Occupied reports whether color c has a piece on sq.
func (b *Board) Occupied(sq Square, c Color) bool {
	return sq.IsValid() && b.planes[c][sq] != NoPieceType
}

// IsEmpty returns true if neither color occupies sq.
func (b *Board) IsEmpty(sq Square) bool {
	return b.planes[White][sq] == NoPieceType && b.planes[Black][sq] == NoPieceType
}

// PieceAt returns the kind and color of the piece on sq. Empty squares
// report NoPieceType and NoColor.
func (b *Board) PieceAt(sq Square) (PieceType, Color) {
	if !sq.IsValid() {
		return NoPieceType, NoColor
	}
	if pt := b.planes[White][sq]; pt != NoPieceType {
		return pt, White
	}
	if pt := b.planes[Black][sq]; pt != NoPieceType {
		return pt, Black
	}
	return NoPieceType, NoColor
}

// Symbol returns the display symbol for sq: uppercase for White, lowercase
// for Black, EmptySymbol otherwise.
func (b *Board) Symbol(sq Square) (byte, error) {
	if !sq.IsValid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSquare, sq)
	}
	w, bl := b.planes[White][sq], b.planes[Black][sq]
	switch {
	case w != NoPieceType && bl != NoPieceType:
		return 0, fmt.Errorf("%w: %s occupied by both colors", ErrInvariant, sq)
	case w != NoPieceType:
		return w.Symbol(White)
	case bl != NoPieceType:
		return bl.Symbol(Black)
	default:
		return EmptySymbol, nil
	}
}

// KingSquare locates the king of color c, NoSquare if it is missing.
func (b *Board) KingSquare(c Color) Square {
	for sq := A1; sq <= H8; sq++ {
		if b.planes[c][sq] == King {
			return sq
		}
	}
	return NoSquare
}

// Count returns the number of pieces color c has on the board.
func (b *Board) Count(c Color) int {
	n := 0
	for _, pt := range b.planes[c] {
		if pt != NoPieceType {
			n++
		}
	}
	return n
}

// Validate checks the structural invariants of the position.
func (b *Board) Validate() error {
	for c := White; c <= Black; c++ {
		kings, pieces := 0, 0
		for sq := A1; sq <= H8; sq++ {
			pt := b.planes[c][sq]
			if !pt.IsValid() {
				return fmt.Errorf("%w: %s", ErrCorruptPiece, sq)
			}
			if pt == NoPieceType {
				continue
			}
			pieces++
			if pt == King {
				kings++
			}
			if b.planes[c.Other()][sq] != NoPieceType {
				return fmt.Errorf("%w: %s occupied by both colors", ErrInvariant, sq)
			}
		}
		if kings != 1 {
			return fmt.Errorf("%w: %s has %d kings", ErrInvariant, c, kings)
		}
		if pieces > 16 {
			return fmt.Errorf("%w: %s has %d pieces", ErrInvariant, c, pieces)
		}
	}
	if b.enPassant != NoSquare && b.enPassant.RelativeRank(b.sideToMove.Other()) != 2 {
		return fmt.Errorf("%w: en passant target %s", ErrInvariant, b.enPassant)
	}
	return nil
}

// String returns a visual representation of the board.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			s, err := b.Symbol(NewSquare(file, rank))
			if err != nil {
				s = '?'
			}
			sb.WriteByte(s)
			sb.WriteByte(' ')
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.sideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", b.castle)
	fmt.Fprintf(&sb, "En passant: %s\n", b.enPassant)
	fmt.Fprintf(&sb, "Fingerprint: %08x\n", b.Fingerprint())
	return sb.String()
}
