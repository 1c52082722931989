package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openMemory(t *testing.T) *Database {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(`CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return New(db)
}

func count(t *testing.T, d *Database) int {
	t.Helper()
	var n int
	if err := d.DB().QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestWithTx_Commit(t *testing.T) {
	d := openMemory(t)

	err := d.WithTx(context.Background(), func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO kv (k, v) VALUES ('a', '1')`)
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := count(t, d); n != 1 {
		t.Fatalf("expected 1 row after commit, got %d", n)
	}
}

func TestWithTx_RollbackOnError(t *testing.T) {
	d := openMemory(t)
	boom := errors.New("boom")

	err := d.WithTx(context.Background(), func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO kv (k, v) VALUES ('a', '1')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n := count(t, d); n != 0 {
		t.Fatalf("expected rollback to leave 0 rows, got %d", n)
	}
}

func TestPing(t *testing.T) {
	d := openMemory(t)
	if err := d.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}
