package board

// legalityFunc decides whether a piece of color mover on from may move to
// to under its own movement pattern. It reads the board and never mutates it.
// Callers go through pieceLegal, which has already applied the common gate.
type legalityFunc func(b *Board, mover Color, from, to Square) bool

// legality dispatches on the closed set of piece kinds.
var legality = [pieceTypeCount]legalityFunc{
	King:   kingLegal,
	Queen:  queenLegal,
	Rook:   rookLegal,
	Bishop: bishopLegal,
	Knight: knightLegal,
	Pawn:   pawnLegal,
}

// pieceLegal reports whether the piece mover has on from may move to to.
// Both squares must be on the board, mover must occupy from, and to must not
// hold one of mover's own pieces. Castling is not covered here.
func pieceLegal(b *Board, mover Color, from, to Square) bool {
	if !from.IsValid() || !to.IsValid() || from == to {
		return false
	}
	pt := b.planes[mover][from]
	if pt == NoPieceType || b.planes[mover][to] != NoPieceType {
		return false
	}
	rule := legality[pt]
	return rule != nil && rule(b, mover, from, to)
}

// deltas returns the file and rank offsets from one square to another.
func deltas(from, to Square) (df, dr int) {
	return to.File() - from.File(), to.Rank() - from.Rank()
}

// pawnDirection is +1 for White (towards rank 8) and -1 for Black.
func pawnDirection(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

func kingLegal(_ *Board, _ Color, from, to Square) bool {
	df, dr := deltas(from, to)
	return abs(df) <= 1 && abs(dr) <= 1 && (df != 0 || dr != 0)
}

func queenLegal(b *Board, mover Color, from, to Square) bool {
	return rookLegal(b, mover, from, to) || bishopLegal(b, mover, from, to)
}

func rookLegal(b *Board, _ Color, from, to Square) bool {
	df, dr := deltas(from, to)
	if (df == 0) == (dr == 0) {
		return false
	}
	return pathClear(b, from, to)
}

func bishopLegal(b *Board, _ Color, from, to Square) bool {
	df, dr := deltas(from, to)
	if df == 0 || abs(df) != abs(dr) {
		return false
	}
	return pathClear(b, from, to)
}

func knightLegal(_ *Board, _ Color, from, to Square) bool {
	df, dr := deltas(from, to)
	adf, adr := abs(df), abs(dr)
	return (adf == 1 && adr == 2) || (adf == 2 && adr == 1)
}

func pawnLegal(b *Board, mover Color, from, to Square) bool {
	df, dr := deltas(from, to)
	dir := pawnDirection(mover)

	switch {
	case df == 0 && dr == dir:
		return b.IsEmpty(to)
	case df == 0 && dr == 2*dir:
		mid := NewSquare(from.File(), from.Rank()+dir)
		return from.RelativeRank(mover) == 1 && b.IsEmpty(mid) && b.IsEmpty(to)
	case abs(df) == 1 && dr == dir:
		if b.Occupied(to, mover.Other()) {
			return true
		}
		return isEnPassantCapture(b, mover, from, to)
	}
	return false
}

// isEnPassantCapture reports whether a diagonal pawn step onto the empty
// en passant target takes the pawn that just double-advanced past it.
func isEnPassantCapture(b *Board, mover Color, from, to Square) bool {
	if b.enPassant == NoSquare || to != b.enPassant || !b.IsEmpty(to) {
		return false
	}
	return b.planes[mover.Other()][passedPawnSquare(from, to)] == Pawn
}

// passedPawnSquare is where the pawn captured en passant stands: the
// destination file on the capturing pawn's rank.
func passedPawnSquare(from, to Square) Square {
	return NewSquare(to.File(), from.Rank())
}

// pawnAttacks reports whether a pawn of color c on from attacks to. Unlike
// pawnLegal this holds for empty targets and never for straight pushes.
func pawnAttacks(c Color, from, to Square) bool {
	df, dr := deltas(from, to)
	return abs(df) == 1 && dr == pawnDirection(c)
}

// pathClear checks that every square strictly between from and to is empty.
// from and to must share a file, rank or diagonal.
func pathClear(b *Board, from, to Square) bool {
	df, dr := deltas(from, to)
	stepF, stepR := sign(df), sign(dr)

	file, rank := from.File()+stepF, from.Rank()+stepR
	for file != to.File() || rank != to.Rank() {
		if !b.IsEmpty(NewSquare(file, rank)) {
			return false
		}
		file += stepF
		rank += stepR
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
