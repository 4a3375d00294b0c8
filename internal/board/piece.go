package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType represents the kind of a chess piece. The zero value is an
// empty square; the color comes from the plane the piece sits on.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
	pieceTypeCount
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case King:
		return "King"
	case Queen:
		return "Queen"
	case Rook:
		return "Rook"
	case Bishop:
		return "Bishop"
	case Knight:
		return "Knight"
	case Pawn:
		return "Pawn"
	default:
		return "None"
	}
}

// IsValid reports whether pt is one of the six kinds or NoPieceType.
func (pt PieceType) IsValid() bool {
	return pt < pieceTypeCount
}

// IsPromotable reports whether a pawn may promote to pt.
func (pt PieceType) IsPromotable() bool {
	switch pt {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}

// EmptySymbol is the display symbol for an unoccupied square.
const EmptySymbol byte = '.'

// pieceSymbols holds the White display letter per kind; Black is lowercase.
var pieceSymbols = [pieceTypeCount]byte{EmptySymbol, 'K', 'Q', 'R', 'B', 'N', 'P'}

// Symbol returns the display letter for a piece of the given color:
// uppercase for White, lowercase for Black, EmptySymbol for NoPieceType.
func (pt PieceType) Symbol(c Color) (byte, error) {
	if !pt.IsValid() || (c != White && c != Black) {
		return 0, ErrCorruptPiece
	}
	s := pieceSymbols[pt]
	if pt != NoPieceType && c == Black {
		s += 'a' - 'A'
	}
	return s, nil
}

// PieceFromSymbol converts a display letter back to a kind and color.
func PieceFromSymbol(s byte) (PieceType, Color, bool) {
	c := White
	if s >= 'a' && s <= 'z' {
		c = Black
		s -= 'a' - 'A'
	}
	for pt := King; pt < pieceTypeCount; pt++ {
		if pieceSymbols[pt] == s {
			return pt, c, true
		}
	}
	return NoPieceType, NoColor, false
}
