package board

// IsSquareAttacked returns true if any piece of color by attacks sq.
// The movement predicates are evaluated with by as the mover, passed
// explicitly, so the side to move is never touched.
func IsSquareAttacked(b *Board, sq Square, by Color) bool {
	if !sq.IsValid() || b.planes[by][sq] != NoPieceType {
		return false
	}
	for from := A1; from <= H8; from++ {
		pt := b.planes[by][from]
		switch pt {
		case NoPieceType:
			continue
		case Pawn:
			// A pawn push never attacks; only the diagonal step does.
			if pawnAttacks(by, from, sq) {
				return true
			}
		default:
			if pieceLegal(b, by, from, sq) {
				return true
			}
		}
	}
	return false
}

// InCheck returns true if the king of color c is attacked.
func InCheck(b *Board, c Color) bool {
	ksq := b.KingSquare(c)
	if ksq == NoSquare {
		return false
	}
	return IsSquareAttacked(b, ksq, c.Other())
}

// InCheck returns true if the side to move is in check.
func (b *Board) InCheck() bool {
	return InCheck(b, b.sideToMove)
}

// Attackers returns every square holding a piece of color by that attacks sq.
func Attackers(b *Board, sq Square, by Color) []Square {
	var out []Square
	for from := A1; from <= H8; from++ {
		pt := b.planes[by][from]
		if pt == NoPieceType {
			continue
		}
		var hit bool
		if pt == Pawn {
			hit = pawnAttacks(by, from, sq)
		} else {
			probe := b
			if b.planes[by][sq] != NoPieceType {
				// Defended own piece: look at the square as if it were empty.
				probe = b.Clone()
				probe.planes[by][sq] = NoPieceType
			}
			hit = pieceLegal(probe, by, from, sq)
		}
		if hit {
			out = append(out, from)
		}
	}
	return out
}
