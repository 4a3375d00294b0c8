package board

import "testing"

func TestPieceLegal(t *testing.T) {
	const open = "4k3/8/8/8/3Q4/8/8/4K3 w - - 0 1"
	tests := []struct {
		name     string
		fen      string
		mover    Color
		from, to Square
		want     bool
	}{
		{"queen file", open, White, D4, D8, true},
		{"queen diagonal", open, White, D4, H8, true},
		{"queen knight jump", open, White, D4, E6, false},
		{"queen diagonal step", open, White, D4, E3, true},
		{"king step", open, White, E1, F2, true},
		{"king two steps", open, White, E1, E3, false},
		{"king stays", open, White, E1, E1, false},

		{"knight jumps over pawns", StartFEN, White, G1, F3, true},
		{"knight straight", StartFEN, White, G1, G3, false},
		{"rook blocked by own pawn", StartFEN, White, A1, A3, false},
		{"bishop blocked", StartFEN, White, C1, E3, false},

		{"pawn single", StartFEN, White, E2, E3, true},
		{"pawn double", StartFEN, White, E2, E4, true},
		{"black pawn double", StartFEN, Black, D7, D5, true},
		{"pawn backwards", "4k3/8/8/8/4P3/8/8/4K3 w - - 0 1", White, E4, E3, false},
		{"pawn double off start", "4k3/8/8/8/8/4P3/8/4K3 w - - 0 1", White, E3, E5, false},
		{"pawn push blocked", "4k3/8/8/8/4p3/4P3/8/4K3 w - - 0 1", White, E3, E4, false},
		{"pawn double through piece", "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1", White, E2, E4, false},
		{"pawn diagonal empty", StartFEN, White, E2, D3, false},
		{"pawn capture", "4k3/8/8/8/8/3n4/4P3/4K3 w - - 0 1", White, E2, D3, true},
		{"pawn capture forward", "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1", White, E2, E3, false},
		{"black pawn capture", "4k3/8/3p4/4N3/8/8/8/4K3 b - - 0 1", Black, D6, E5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := MustParseFEN(tt.fen)
			if got := pieceLegal(b, tt.mover, tt.from, tt.to); got != tt.want {
				t.Errorf("pieceLegal(%s, %s%s) = %v, want %v", tt.mover, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestPieceLegalMoverIsExplicit(t *testing.T) {
	// Rules take the mover as an argument, so they answer for Black while
	// White is to move.
	b := NewBoard()
	if !pieceLegal(b, Black, G8, F6) {
		t.Error("Black knight g8f6 should be legal for Black")
	}
	if pieceLegal(b, White, G8, F6) {
		t.Error("White has no piece on g8")
	}
	if b.Turn() != White {
		t.Error("rule evaluation changed the side to move")
	}
}
