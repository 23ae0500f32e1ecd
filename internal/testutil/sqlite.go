// Package testutil provides SQLite fixtures shared by package tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// UsersSchema creates the users table the CLI test models describe.
const UsersSchema = `CREATE TABLE users (
	Id INTEGER PRIMARY KEY,
	user_name TEXT NOT NULL,
	Age INTEGER NOT NULL,
	is_active BOOLEAN NOT NULL
)`

// UsersRows seeds UsersSchema. Only alice is both active and over 18.
const UsersRows = `INSERT INTO users (Id, user_name, Age, is_active) VALUES
	(1, 'alice', 30, 1),
	(2, 'bob', 17, 1),
	(3, 'carol', 40, 0)`

// SQLiteFile creates a SQLite database file in a test temp dir, runs
// stmts in order, and returns its path. The file is removed with the
// temp dir.
func SQLiteFile(t testing.TB, stmts ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer db.Close()

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	// Ping creates the file even when no statement ran.
	if err := db.Ping(); err != nil {
		t.Fatalf("ping %s: %v", path, err)
	}
	return path
}

// UsersDB is SQLiteFile seeded with UsersSchema and UsersRows.
func UsersDB(t testing.TB) string {
	t.Helper()
	return SQLiteFile(t, UsersSchema, UsersRows)
}
