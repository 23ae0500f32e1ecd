package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/predsql/internal/model"
)

// person is the entity used by store tests.
type person struct {
	Id       int64
	Name     string `column:"full_name"`
	Age      int
	Score    float64
	IsActive bool `column:"is_active"`
	Joined   time.Time
	Nickname *string
}

func (person) SetName() string { return "people" }

var people = model.MustDescribe[person]()

// createTestStore creates a new file-backed SQLite store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedPeople creates the people table with a fixed data set.
func seedPeople(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	stmts := []string{
		`CREATE TABLE people (
			Id        INTEGER PRIMARY KEY,
			full_name TEXT NOT NULL,
			Age       INTEGER NOT NULL,
			Score     REAL NOT NULL,
			is_active BOOLEAN NOT NULL,
			Joined    DATETIME NOT NULL,
			Nickname  TEXT
		)`,
		`INSERT INTO people VALUES
			(1, 'alice', 34, 9.5, 1, '2024-01-02 00:00:00', 'al'),
			(2, 'bob',   17, 4.0, 1, '2024-02-03 00:00:00', NULL),
			(3, 'carol', 52, 7.25, 0, '2024-03-04 00:00:00', NULL),
			(4, 'alfred', 61, 2.0, 1, '2024-04-05 00:00:00', 'fred')`,
	}
	for _, stmt := range stmts {
		if _, err := s.Exec(ctx, stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

// mustDescribe builds a descriptor or fails the test.
func mustDescribe[T any](t *testing.T) *model.Descriptor {
	t.Helper()
	d, err := model.Describe[T]()
	if err != nil {
		t.Fatalf("Describe() failed: %v", err)
	}
	return d
}
