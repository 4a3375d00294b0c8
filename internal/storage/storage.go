package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chessrelay/internal/board"
)

// Storage keys
const (
	prefixGame        = "game/"
	prefixFingerprint = "fp/"
)

var (
	ErrNotFound            = errors.New("game not found")
	ErrInvalidID           = errors.New("invalid game id")
	ErrFingerprintMismatch = errors.New("replayed fingerprint does not match record")
)

// GameRecord is one saved game: where it started, the moves that were
// accepted, and where it ended up.
type GameRecord struct {
	ID          string    `json:"id"`
	StartFEN    string    `json:"start_fen"`
	Moves       []string  `json:"moves"`
	FinalFEN    string    `json:"final_fen"`
	Fingerprint uint32    `json:"fingerprint"`
	Started     time.Time `json:"started"`
	Updated     time.Time `json:"updated"`
}

// NewRecord builds a record for a game that started at startFEN, played moves
// and now stands at b.
func NewRecord(id, startFEN string, moves []string, b *board.Board) GameRecord {
	return GameRecord{
		ID:          id,
		StartFEN:    startFEN,
		Moves:       append([]string(nil), moves...),
		FinalFEN:    b.FEN(),
		Fingerprint: b.Fingerprint(),
	}
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens or creates a database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(prefixGame + id)
}

func fingerprintPrefix(fp uint32) string {
	return fmt.Sprintf("%s%08x/", prefixFingerprint, fp)
}

func fingerprintKey(fp uint32, id string) []byte {
	return []byte(fingerprintPrefix(fp) + id)
}

func validateID(id string) error {
	if id == "" || strings.ContainsAny(id, "/ \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// SaveGame stores rec under its ID, replacing any earlier version, and keeps
// the fingerprint index in step.
func (s *Storage) SaveGame(rec GameRecord) error {
	if err := validateID(rec.ID); err != nil {
		return err
	}
	now := time.Now()
	if rec.Started.IsZero() {
		rec.Started = now
	}
	rec.Updated = now

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		old, err := getRecord(txn, rec.ID)
		switch {
		case err == nil:
			if err := txn.Delete(fingerprintKey(old.Fingerprint, old.ID)); err != nil {
				return err
			}
		case !errors.Is(err, ErrNotFound):
			return err
		}

		if err := txn.Set(gameKey(rec.ID), data); err != nil {
			return err
		}
		return txn.Set(fingerprintKey(rec.Fingerprint, rec.ID), []byte{})
	})
}

// LoadGame returns the record stored under id.
func (s *Storage) LoadGame(id string) (GameRecord, error) {
	var rec GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = getRecord(txn, id)
		return err
	})
	return rec, err
}

func getRecord(txn *badger.Txn, id string) (GameRecord, error) {
	var rec GameRecord
	item, err := txn.Get(gameKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return rec, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return rec, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	})
	return rec, err
}

// ListGames returns every stored record ordered by ID.
func (s *Storage) ListGames() ([]GameRecord, error) {
	var recs []GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixGame)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			recs = append(recs, rec)
		}
		return nil
	})
	return recs, err
}

// DeleteGame removes a record and its index entry.
func (s *Storage) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(fingerprintKey(rec.Fingerprint, rec.ID)); err != nil {
			return err
		}
		return txn.Delete(gameKey(id))
	})
}

// FindByFingerprint returns the IDs of games whose final position has the
// given fingerprint.
func (s *Storage) FindByFingerprint(fp uint32) ([]string, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(fingerprintPrefix(fp))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, string(prefix)))
		}
		return nil
	})
	return ids, err
}

// Replay rebuilds the board a record describes by playing its moves from the
// start position. It fails if any move is rejected or the result does not
// carry the recorded fingerprint.
func Replay(rec GameRecord) (*board.Board, error) {
	start := rec.StartFEN
	if start == "" {
		start = board.StartFEN
	}
	b, err := board.ParseFEN(start)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", rec.ID, err)
	}

	for i, tok := range rec.Moves {
		from, to, promo, err := board.ParseMove(tok)
		if err != nil {
			return nil, fmt.Errorf("replay %s: move %d: %w", rec.ID, i+1, err)
		}
		if out, err := b.ApplyMove(from, to, promo); out == board.Rejected {
			return nil, fmt.Errorf("replay %s: move %d %s: %w", rec.ID, i+1, tok, err)
		}
	}

	if got := b.Fingerprint(); got != rec.Fingerprint {
		return nil, fmt.Errorf("%w: %s: got %08x, want %08x", ErrFingerprintMismatch, rec.ID, got, rec.Fingerprint)
	}
	return b, nil
}
