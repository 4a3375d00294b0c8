package board

import "fmt"

// Castling king destinations, indexed by color.
var (
	castleKingSideTo  = [2]Square{G1, G8}
	castleQueenSideTo = [2]Square{C1, C8}
)

// isCastleAttempt reports whether from/to is the king's castling pattern:
// the mover's king on its home square heading for the g- or c-file.
func isCastleAttempt(b *Board, mover Color, from, to Square) bool {
	if from != kingHome[mover] || b.planes[mover][from] != King {
		return false
	}
	return to == castleKingSideTo[mover] || to == castleQueenSideTo[mover]
}

// castleMove checks and plays a castling move. The king may not start on,
// pass over or land on an attacked square; the right for that side must
// still be held and every square between king and rook must be empty.
func (b *Board) castleMove(mover Color, from, to Square) (Outcome, error) {
	them := mover.Other()
	kingSide := to == castleKingSideTo[mover]

	if !b.castle.CanCastle(mover, kingSide) {
		return Rejected, fmt.Errorf("%w: %s has lost the right", ErrCastleNotAllowed, castleName(mover, kingSide))
	}

	rookFrom := rookHomeQueen[mover]
	rookFile := 3
	if kingSide {
		rookFrom = rookHomeKing[mover]
		rookFile = 5
	}
	if b.planes[mover][rookFrom] != Rook {
		return Rejected, fmt.Errorf("%w: no rook on %s", ErrCastleNotAllowed, rookFrom)
	}

	step := sign(rookFrom.File() - from.File())
	for file := from.File() + step; file != rookFrom.File(); file += step {
		if sq := NewSquare(file, from.Rank()); !b.IsEmpty(sq) {
			return Rejected, fmt.Errorf("%w: %s is occupied", ErrCastleNotAllowed, sq)
		}
	}

	rookTo := NewSquare(rookFile, from.Rank())
	// rookTo is also the square the king crosses.
	for _, sq := range [...]Square{from, rookTo} {
		if IsSquareAttacked(b, sq, them) {
			return Rejected, fmt.Errorf("%w: %s is attacked", ErrCastleNotAllowed, sq)
		}
	}

	txn := b.begin()
	b.planes[mover][from] = NoPieceType
	b.planes[mover][rookFrom] = NoPieceType
	b.planes[mover][to] = King
	b.planes[mover][rookTo] = Rook

	if InCheck(b, mover) {
		txn.rollback()
		return Rejected, fmt.Errorf("%w: king would stand attacked on %s", ErrSelfCheck, to)
	}

	b.castle &^= castleRight(mover, true) | castleRight(mover, false)
	b.enPassant = NoSquare
	b.sideToMove = them
	return Applied, nil
}

func castleName(c Color, kingSide bool) string {
	if kingSide {
		return c.String() + " king-side"
	}
	return c.String() + " queen-side"
}
