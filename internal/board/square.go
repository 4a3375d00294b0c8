// Package board implements the chess board state machine: square addressing,
// per-piece legality, check detection, castling, en passant, promotion and a
// 32-bit position fingerprint.
package board

import (
	"fmt"
	"strings"
)

// Square represents a square on the chess board (0-63).
// Uses File-Major mapping: index = file*8 + rank, so A1=0, A8=7, B1=8, H8=63.
//
// Values above NoSquare are reserved tokens used to select a promotion piece
// in move notation; they never address the board.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	A2
	A3
	A4
	A5
	A6
	A7
	A8
	B1
	B2
	B3
	B4
	B5
	B6
	B7
	B8
	C1
	C2
	C3
	C4
	C5
	C6
	C7
	C8
	D1
	D2
	D3
	D4
	D5
	D6
	D7
	D8
	E1
	E2
	E3
	E4
	E5
	E6
	E7
	E8
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	G1
	G2
	G3
	G4
	G5
	G6
	G7
	G8
	H1
	H2
	H3
	H4
	H5
	H6
	H7
	H8
	NoSquare Square = 64
)

// Promotion selector tokens. They sit outside the board and are rejected by
// ParseSquare.
const (
	PromoteQueen Square = iota + 65
	PromoteRook
	PromoteBishop
	PromoteKnight
)

// promotionTokens maps selector tokens to their notation and piece type.
var promotionTokens = [...]struct {
	tok  Square
	text string
	kind PieceType
}{
	{PromoteQueen, "=Q", Queen},
	{PromoteRook, "=R", Rook},
	{PromoteBishop, "=B", Bishop},
	{PromoteKnight, "=N", Knight},
}

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) >> 3
}

// Rank returns the rank (row) of the square (0-7, where 0=1, 7=8).
func (sq Square) Rank() int {
	return int(sq) & 7
}

// String returns the notation for the square (e.g., "e4") or the selector
// token ("=Q"). Anything else formats as "-".
func (sq Square) String() string {
	if sq < NoSquare {
		return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
	}
	for _, p := range promotionTokens {
		if p.tok == sq {
			return p.text
		}
	}
	return "-"
}

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(file*8 + rank)
}

// onBoard reports whether a file/rank pair lies on the board.
func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

// ParseSquare parses notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q must be exactly two characters", ErrInvalidNotation, s)
	}

	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'

	if !onBoard(file, rank) {
		return NoSquare, fmt.Errorf("%w: %q is outside a1-h8", ErrInvalidNotation, s)
	}

	return NewSquare(file, rank), nil
}

// ParseToken parses either a square or one of the promotion selector tokens.
func ParseToken(s string) (Square, error) {
	if len(s) == 2 && s[0] == '=' {
		for _, p := range promotionTokens {
			if strings.EqualFold(p.text, s) {
				return p.tok, nil
			}
		}
		return NoSquare, fmt.Errorf("%w: unknown promotion token %q", ErrInvalidNotation, s)
	}
	return ParseSquare(s)
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// IsPromotionToken reports whether sq is one of the promotion selectors.
func (sq Square) IsPromotionToken() bool {
	return sq >= PromoteQueen && sq <= PromoteKnight
}

// PromotionKind returns the piece type a selector token stands for, or
// NoPieceType for anything else.
func (sq Square) PromotionKind() PieceType {
	for _, p := range promotionTokens {
		if p.tok == sq {
			return p.kind
		}
	}
	return NoPieceType
}

// PromotionToken returns the selector token for a promotable piece type.
func PromotionToken(pt PieceType) (Square, bool) {
	for _, p := range promotionTokens {
		if p.kind == pt {
			return p.tok, true
		}
	}
	return NoSquare, false
}

// RelativeRank returns the rank from a given color's perspective.
// For White, rank 0 is the 1st rank; for Black, rank 0 is the 8th rank.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}

// ParseMove parses a move in token notation.
//
//	"e2e4"   plain move
//	"e7e8=Q" move with the promotion selector supplied up front
//	"e8=Q"   completes a pending promotion on e8
func ParseMove(s string) (from, to Square, promo PieceType, err error) {
	s = strings.TrimSpace(s)
	switch len(s) {
	case 4:
		if from, err = ParseSquare(s[:2]); err != nil {
			return NoSquare, NoSquare, NoPieceType, err
		}
		tok, err := ParseToken(s[2:])
		if err != nil {
			return NoSquare, NoSquare, NoPieceType, err
		}
		if tok.IsPromotionToken() {
			return from, from, tok.PromotionKind(), nil
		}
		return from, tok, NoPieceType, nil
	case 6:
		if from, err = ParseSquare(s[:2]); err != nil {
			return NoSquare, NoSquare, NoPieceType, err
		}
		if to, err = ParseSquare(s[2:4]); err != nil {
			return NoSquare, NoSquare, NoPieceType, err
		}
		tok, err := ParseToken(s[4:])
		if err != nil {
			return NoSquare, NoSquare, NoPieceType, err
		}
		if !tok.IsPromotionToken() {
			return NoSquare, NoSquare, NoPieceType, fmt.Errorf("%w: %q is not a promotion token", ErrInvalidNotation, s[4:])
		}
		return from, to, tok.PromotionKind(), nil
	default:
		return NoSquare, NoSquare, NoPieceType, fmt.Errorf("%w: move %q", ErrInvalidNotation, s)
	}
}

// FormatMove is the inverse of ParseMove.
func FormatMove(from, to Square, promo PieceType) string {
	tok, ok := PromotionToken(promo)
	if !ok {
		return from.String() + to.String()
	}
	if from == to {
		return from.String() + tok.String()
	}
	return from.String() + to.String() + tok.String()
}
