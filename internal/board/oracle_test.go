package board

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/notnil/chess"
)

var oraclePromotions = map[chess.PieceType]PieceType{
	chess.Queen:  Queen,
	chess.Rook:   Rook,
	chess.Bishop: Bishop,
	chess.Knight: Knight,
}

// TestMovesMatchReferenceLibrary walks seeded random games and compares the
// move list, placement and castling rights with an independent move generator
// at every ply.
func TestMovesMatchReferenceLibrary(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping reference comparison in short mode")
	}
	for seed := int64(1); seed <= 6; seed++ {
		rng := rand.New(rand.NewSource(seed))
		b := NewBoard()
		pos := chess.NewGame().Position()

		for ply := 0; ply < 100; ply++ {
			ref := pos.ValidMoves()

			want := make(map[string]bool)
			for _, m := range ref {
				want[m.S1().String()+m.S2().String()] = true
			}
			var got []string
			for _, m := range b.LegalMoves() {
				got = append(got, m.From.String()+m.To.String())
			}
			if diff := cmp.Diff(sortedKeys(want), sorted(got), cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("seed %d ply %d: moves mismatch (-reference +board):\n%s\n%s", seed, ply, diff, b)
			}

			placement := strings.Fields(b.FEN())
			if placement[0] != pos.Board().String() {
				t.Fatalf("seed %d ply %d: placement %s, reference %s", seed, ply, placement[0], pos.Board().String())
			}
			if placement[2] != pos.CastleRights().String() {
				t.Fatalf("seed %d ply %d: castling %s, reference %s", seed, ply, placement[2], pos.CastleRights().String())
			}
			if len(ref) == 0 {
				break
			}

			m := ref[rng.Intn(len(ref))]
			from, _ := ParseSquare(m.S1().String())
			to, _ := ParseSquare(m.S2().String())
			if out, err := b.ApplyMove(from, to, oraclePromotions[m.Promo()]); out != Applied {
				t.Fatalf("seed %d ply %d: %s%s = %s, %v", seed, ply, from, to, out, err)
			}
			pos = pos.Update(m)
		}
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return sorted(keys)
}

func sorted(s []string) []string {
	sort.Strings(s)
	return s
}
