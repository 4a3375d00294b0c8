package board

import "fmt"

// Outcome is the result of a call to ApplyMove.
type Outcome uint8

const (
	Rejected Outcome = iota
	Applied
	AwaitingPromotion
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case AwaitingPromotion:
		return "awaiting-promotion"
	default:
		return "rejected"
	}
}

// Move is a from/to pair with an optional promotion selector.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
}

// String returns the move in token notation (e.g., "e2e4", "e7e8=Q").
func (m Move) String() string {
	return FormatMove(m.From, m.To, m.Promotion)
}

// planeTxn snapshots both color planes before a speculative change so the
// change can be reverted if the move turns out to leave the king in check.
type planeTxn struct {
	b     *Board
	saved [2][64]PieceType
}

func (b *Board) begin() planeTxn {
	return planeTxn{b: b, saved: b.planes}
}

// rollback restores the planes captured by begin.
func (t planeTxn) rollback() {
	t.b.planes = t.saved
}

// ApplyMove validates and plays a move for the side to move.
//
// promo selects the piece a pawn becomes on the last rank. Without it such a
// pawn move returns AwaitingPromotion and the turn stays with the mover until
// a follow-up call supplies the selector for the waiting pawn.
//
// On any error the outcome is Rejected and the board is unchanged.
func (b *Board) ApplyMove(from, to Square, promo PieceType) (Outcome, error) {
	if !from.IsValid() || !to.IsValid() {
		return Rejected, fmt.Errorf("%w: %s%s", ErrInvalidSquare, from, to)
	}
	if promo != NoPieceType && !promo.IsPromotable() {
		return Rejected, fmt.Errorf("%w: cannot promote to %s", ErrInvalidPromotionContext, promo)
	}

	if b.pending != NoSquare {
		return b.completePromotion(from, to, promo)
	}

	mover := b.sideToMove
	if isCastleAttempt(b, mover, from, to) {
		if promo != NoPieceType {
			return Rejected, fmt.Errorf("%w: selector given for castling", ErrInvalidPromotionContext)
		}
		return b.castleMove(mover, from, to)
	}

	pt := b.planes[mover][from]
	if pt == NoPieceType {
		return Rejected, fmt.Errorf("%w: %s", ErrNoPieceAtSource, from)
	}
	if !pieceLegal(b, mover, from, to) {
		return Rejected, fmt.Errorf("%w: %s %s%s", ErrIllegalForPiece, pt, from, to)
	}

	promotes := pt == Pawn && to.RelativeRank(mover) == 7
	if promo != NoPieceType && !promotes {
		return Rejected, fmt.Errorf("%w: %s%s does not promote", ErrInvalidPromotionContext, from, to)
	}

	them := mover.Other()
	capSq := to
	if pt == Pawn && isEnPassantCapture(b, mover, from, to) {
		capSq = passedPawnSquare(from, to)
	}
	captured := b.planes[them][capSq]
	if captured == King {
		return Rejected, fmt.Errorf("%w: king on %s cannot be captured", ErrIllegalForPiece, capSq)
	}

	txn := b.begin()
	b.planes[them][capSq] = NoPieceType
	b.planes[mover][from] = NoPieceType
	b.planes[mover][to] = pt

	if InCheck(b, mover) {
		txn.rollback()
		return Rejected, fmt.Errorf("%w: %s%s", ErrSelfCheck, from, to)
	}

	b.updateCastleRights(pt, mover, from, to)

	b.enPassant = NoSquare
	if pt == Pawn && abs(to.Rank()-from.Rank()) == 2 {
		b.enPassant = NewSquare(from.File(), (from.Rank()+to.Rank())/2)
	}

	if promotes {
		if promo == NoPieceType {
			b.pending = to
			b.pendingFrom = from
			return AwaitingPromotion, nil
		}
		b.planes[mover][to] = promo
	}

	b.sideToMove = them
	return Applied, nil
}

// Play applies a move value.
func (b *Board) Play(m Move) (Outcome, error) {
	return b.ApplyMove(m.From, m.To, m.Promotion)
}

// Promote supplies the selector for the pawn waiting on the last rank.
func (b *Board) Promote(kind PieceType) (Outcome, error) {
	if b.pending == NoSquare {
		return Rejected, fmt.Errorf("%w: no promotion pending", ErrInvalidPromotionContext)
	}
	return b.ApplyMove(b.pending, b.pending, kind)
}

// completePromotion replaces the waiting pawn and passes the turn. The call
// must name the waiting pawn: to is its square and from is either that
// square or the square it moved from.
func (b *Board) completePromotion(from, to Square, promo PieceType) (Outcome, error) {
	if promo == NoPieceType {
		return Rejected, fmt.Errorf("%w: pawn on %s awaits a selector", ErrInvalidPromotionContext, b.pending)
	}
	if to != b.pending || (from != b.pending && from != b.pendingFrom) {
		return Rejected, fmt.Errorf("%w: promotion pending on %s, got %s%s", ErrInvalidPromotionContext, b.pending, from, to)
	}

	mover := b.sideToMove
	if b.planes[mover][b.pending] != Pawn {
		return Rejected, fmt.Errorf("%w: no pawn on %s", ErrInvariant, b.pending)
	}
	b.planes[mover][b.pending] = promo
	b.pending = NoSquare
	b.pendingFrom = NoSquare
	b.sideToMove = mover.Other()
	return Applied, nil
}

// updateCastleRights drops the rights a committed move invalidates: the
// mover's king leaving, a rook leaving its corner, or any piece landing on
// the opponent's rook corner.
func (b *Board) updateCastleRights(pt PieceType, mover Color, from, to Square) {
	them := mover.Other()
	if pt == King {
		b.castle &^= castleRight(mover, true) | castleRight(mover, false)
	}
	switch from {
	case rookHomeKing[mover]:
		b.castle &^= castleRight(mover, true)
	case rookHomeQueen[mover]:
		b.castle &^= castleRight(mover, false)
	}
	switch to {
	case rookHomeKing[them]:
		b.castle &^= castleRight(them, true)
	case rookHomeQueen[them]:
		b.castle &^= castleRight(them, false)
	}
}

// LegalMoves lists every move the side to move may play. Promotions are
// listed once, without a selector. While a promotion is pending the list
// is empty; only the selector call is accepted.
func (b *Board) LegalMoves() []Move {
	if b.pending != NoSquare {
		return nil
	}
	var moves []Move
	mover := b.sideToMove
	for from := A1; from <= H8; from++ {
		if b.planes[mover][from] == NoPieceType {
			continue
		}
		for to := A1; to <= H8; to++ {
			if b.planes[mover][to] != NoPieceType {
				continue
			}
			probe := b.Clone()
			if out, _ := probe.ApplyMove(from, to, NoPieceType); out != Rejected {
				moves = append(moves, Move{From: from, To: to})
			}
		}
	}
	return moves
}
