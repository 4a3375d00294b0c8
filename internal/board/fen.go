package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Board. Only the first four
// fields matter; the move clocks are accepted and ignored.
//
// A pawn of the side to move standing on its last rank is restored as a
// pending promotion, which is how FEN() writes such a board.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	b := newEmptyBoard()

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(b, parts[0]); err != nil {
		return nil, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	// Parse castling rights (field 2)
	if err := parseCastleRights(b, parts[2]); err != nil {
		return nil, err
	}

	// Parse en passant square (field 3)
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %w", err)
		}
		b.enPassant = sq
	}

	// Clocks (fields 4 and 5) must be numbers if present.
	for _, f := range parts[4:min(len(parts), 6)] {
		if _, err := strconv.Atoi(f); err != nil {
			return nil, fmt.Errorf("invalid move clock: %s", f)
		}
	}

	if err := b.restorePending(); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// MustParseFEN is ParseFEN for constant positions; it panics on error.
func MustParseFEN(fen string) *Board {
	b, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return b
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(b *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			pt, color, ok := PieceFromSymbol(byte(c))
			if !ok {
				return fmt.Errorf("invalid piece character: %c", c)
			}
			b.planes[color][NewSquare(file, rank)] = pt
			file++
		}

		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return nil
}

// parseCastleRights parses the castling rights section of a FEN string.
func parseCastleRights(b *Board, castling string) error {
	if castling == "-" {
		b.castle = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			b.castle |= WhiteKingSide
		case 'Q':
			b.castle |= WhiteQueenSide
		case 'k':
			b.castle |= BlackKingSide
		case 'q':
			b.castle |= BlackQueenSide
		default:
			return fmt.Errorf("invalid castling character: %c", c)
		}
	}

	return nil
}

// restorePending checks pawn ranks and turns a mover's pawn on the last rank
// into a pending promotion.
func (b *Board) restorePending() error {
	for c := White; c <= Black; c++ {
		for sq := A1; sq <= H8; sq++ {
			if b.planes[c][sq] != Pawn {
				continue
			}
			switch sq.RelativeRank(c) {
			case 0:
				return fmt.Errorf("%s pawn on its first rank: %s", c, sq)
			case 7:
				if c != b.sideToMove || b.pending != NoSquare {
					return fmt.Errorf("%s pawn on %s cannot stand on the last rank", c, sq)
				}
				b.pending = sq
				b.pendingFrom = sq
			}
		}
	}
	return nil
}

// FEN returns the FEN representation of the board. Move clocks are not
// tracked and are always written as "0 1".
func (b *Board) FEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			s, err := b.Symbol(NewSquare(file, rank))
			if err != nil {
				s = '?'
			}
			if s == EmptySymbol {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(s)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if b.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	// Castling rights
	sb.WriteByte(' ')
	sb.WriteString(b.castle.String())

	// En passant
	sb.WriteByte(' ')
	sb.WriteString(b.enPassant.String())

	sb.WriteString(" 0 1")
	return sb.String()
}
