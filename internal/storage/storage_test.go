package storage

import (
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chessrelay/internal/board"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// playRecord plays moves from the start position and records the result.
func playRecord(t *testing.T, id string, moves ...string) GameRecord {
	t.Helper()
	b := board.NewBoard()
	for _, tok := range moves {
		from, to, promo, err := board.ParseMove(tok)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", tok, err)
		}
		if out, err := b.ApplyMove(from, to, promo); out == board.Rejected {
			t.Fatalf("ApplyMove(%s): %v", tok, err)
		}
	}
	return NewRecord(id, board.StartFEN, moves, b)
}

func TestStorage(t *testing.T) {
	s := openTest(t)

	rec := playRecord(t, "italian", "e2e4", "e7e5", "g1f3", "b8c6", "f1c4")
	if err := s.SaveGame(rec); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	t.Run("LoadGame", func(t *testing.T) {
		got, err := s.LoadGame("italian")
		if err != nil {
			t.Fatalf("LoadGame: %v", err)
		}
		if got.Started.IsZero() || got.Updated.IsZero() {
			t.Error("timestamps not set")
		}
		got.Started, got.Updated = rec.Started, rec.Updated
		if diff := cmp.Diff(rec, got); diff != "" {
			t.Errorf("LoadGame mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		if _, err := s.LoadGame("missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("LoadGame(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("FindByFingerprint", func(t *testing.T) {
		ids, err := s.FindByFingerprint(rec.Fingerprint)
		if err != nil {
			t.Fatalf("FindByFingerprint: %v", err)
		}
		if diff := cmp.Diff([]string{"italian"}, ids); diff != "" {
			t.Errorf("FindByFingerprint mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Replay", func(t *testing.T) {
		got, err := s.LoadGame("italian")
		if err != nil {
			t.Fatal(err)
		}
		b, err := Replay(got)
		if err != nil {
			t.Fatalf("Replay: %v", err)
		}
		if b.FEN() != rec.FinalFEN {
			t.Errorf("Replay FEN = %q, want %q", b.FEN(), rec.FinalFEN)
		}
	})
}

func TestSaveGameReindexes(t *testing.T) {
	s := openTest(t)

	first := playRecord(t, "g1", "e2e4")
	if err := s.SaveGame(first); err != nil {
		t.Fatal(err)
	}
	second := playRecord(t, "g1", "e2e4", "c7c5")
	if err := s.SaveGame(second); err != nil {
		t.Fatal(err)
	}

	if ids, _ := s.FindByFingerprint(first.Fingerprint); len(ids) != 0 {
		t.Errorf("stale index entry: %v", ids)
	}
	if ids, _ := s.FindByFingerprint(second.Fingerprint); len(ids) != 1 {
		t.Errorf("FindByFingerprint(new) = %v, want [g1]", ids)
	}
}

func TestTranspositionsShareFingerprint(t *testing.T) {
	s := openTest(t)

	a := playRecord(t, "a", "g1f3", "g8f6", "b1c3")
	b := playRecord(t, "b", "b1c3", "g8f6", "g1f3")
	for _, rec := range []GameRecord{a, b} {
		if err := s.SaveGame(rec); err != nil {
			t.Fatal(err)
		}
	}

	ids, err := s.FindByFingerprint(a.Fingerprint)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, ids); diff != "" {
		t.Errorf("FindByFingerprint mismatch (-want +got):\n%s", diff)
	}
}

func TestListAndDelete(t *testing.T) {
	s := openTest(t)

	for _, id := range []string{"c", "a", "b"} {
		if err := s.SaveGame(playRecord(t, id, "d2d4")); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.DeleteGame("b"); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if err := s.DeleteGame("b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteGame error = %v, want ErrNotFound", err)
	}

	recs, err := s.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	var ids []string
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	if diff := cmp.Diff([]string{"a", "c"}, ids); diff != "" {
		t.Errorf("ListGames mismatch (-want +got):\n%s", diff)
	}

	fp := recs[0].Fingerprint
	if ids, _ := s.FindByFingerprint(fp); len(ids) != 2 {
		t.Errorf("FindByFingerprint = %v, want two games", ids)
	}
}

func TestSaveGameInvalidID(t *testing.T) {
	s := openTest(t)
	for _, id := range []string{"", "a/b", "has space"} {
		rec := playRecord(t, id)
		if err := s.SaveGame(rec); !errors.Is(err, ErrInvalidID) {
			t.Errorf("SaveGame(%q) error = %v, want ErrInvalidID", id, err)
		}
	}
}

func TestReplayErrors(t *testing.T) {
	rec := playRecord(t, "x", "e2e4")

	bad := rec
	bad.Moves = []string{"e2e5"}
	if _, err := Replay(bad); !errors.Is(err, board.ErrIllegalForPiece) {
		t.Errorf("Replay(illegal) error = %v, want ErrIllegalForPiece", err)
	}

	bad = rec
	bad.Fingerprint ^= 1
	if _, err := Replay(bad); !errors.Is(err, ErrFingerprintMismatch) {
		t.Errorf("Replay(wrong fingerprint) error = %v, want ErrFingerprintMismatch", err)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	rec := playRecord(t, "disk", "e2e4")
	if err := s.SaveGame(rec); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.LoadGame("disk"); err != nil {
		t.Errorf("LoadGame after reopen: %v", err)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}

	for _, get := range []func() (string, error){GetDataDir, GetDatabaseDir, GetArchiveDir} {
		dir, err := get()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			t.Errorf("directory was not created: %s", dir)
		}
	}
}
