// Package sqlite provides a SQLite-backed implementation of storage.Store.
//
// Each resource gets its own table holding the record as a JSON document:
//
//	seq  INTEGER PRIMARY KEY AUTOINCREMENT, gives the listing order
//	id   the opaque record identifier, UNIQUE
//	doc  the JSON-encoded record
//
// Storing documents instead of one column per field keeps a single generic
// implementation for all four resources.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	// Also registers the "sqlite3" driver.
	"github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/zoo-api/internal/id"
	"github.com/aanand-mishra/zoo-api/internal/storage"
	"github.com/aanand-mishra/zoo-api/internal/types"
)

var tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Open opens (or creates) the SQLite database file at path.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: open db: %w", err)
	}

	// SQLite serialises writers anyway; a single connection avoids
	// "database is locked" errors under concurrent requests.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.Open: ping: %w", err)
	}
	return db, nil
}

// Store is the SQLite implementation of storage.Store for one resource.
type Store[T types.Entity[T]] struct {
	db    *sql.DB
	table string
	ids   id.Generator
}

// New creates the resource table if it does not already exist and returns
// a ready-to-use Store.
func New[T types.Entity[T]](ctx context.Context, db *sql.DB, table string, ids id.Generator) (*Store[T], error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("sqlite.New: invalid table name %q", table)
	}

	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id  TEXT    NOT NULL UNIQUE,
			doc TEXT    NOT NULL
		)
	`, table))
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create table %s: %w", table, err)
	}

	return &Store[T]{db: db, table: table, ids: ids}, nil
}

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	stmt, err := s.db.PrepareContext(ctx,
		fmt.Sprintf("SELECT doc FROM %s ORDER BY seq", s.table),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite.List: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite.List: query: %w", err)
	}
	defer rows.Close()

	records := make([]T, 0)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("sqlite.List: scan row: %w", err)
		}
		rec, err := decode[T](doc)
		if err != nil {
			return nil, fmt.Errorf("sqlite.List: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite.List: rows iteration: %w", err)
	}
	return records, nil
}

func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	stmt, err := s.db.PrepareContext(ctx,
		fmt.Sprintf("SELECT doc FROM %s WHERE id = ? LIMIT 1", s.table),
	)
	if err != nil {
		return zero, fmt.Errorf("sqlite.Get: prepare: %w", err)
	}
	defer stmt.Close()

	var doc string
	if err := stmt.QueryRowContext(ctx, id).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, fmt.Errorf("sqlite.Get %q: %w", id, storage.ErrNotFound)
		}
		return zero, fmt.Errorf("sqlite.Get: scan: %w", err)
	}

	rec, err := decode[T](doc)
	if err != nil {
		return zero, fmt.Errorf("sqlite.Get: %w", err)
	}
	return rec, nil
}

func (s *Store[T]) Create(ctx context.Context, candidateID string, rec T) (T, error) {
	var zero T

	recID := candidateID
	if recID == "" {
		recID = s.ids.NewID()
	}
	rec = rec.WithID(recID)

	doc, err := json.Marshal(rec)
	if err != nil {
		return zero, fmt.Errorf("sqlite.Create: encode: %w", err)
	}

	stmt, err := s.db.PrepareContext(ctx,
		fmt.Sprintf("INSERT INTO %s (id, doc) VALUES (?, ?)", s.table),
	)
	if err != nil {
		return zero, fmt.Errorf("sqlite.Create: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, recID, string(doc)); err != nil {
		if isUniqueViolation(err) {
			return zero, fmt.Errorf("sqlite.Create %q: %w", recID, storage.ErrAlreadyExists)
		}
		return zero, fmt.Errorf("sqlite.Create: exec: %w", err)
	}
	return rec, nil
}

func (s *Store[T]) Update(ctx context.Context, id string, rec T) (T, error) {
	var zero T
	rec = rec.WithID(id)

	doc, err := json.Marshal(rec)
	if err != nil {
		return zero, fmt.Errorf("sqlite.Update: encode: %w", err)
	}

	stmt, err := s.db.PrepareContext(ctx,
		fmt.Sprintf("UPDATE %s SET doc = ? WHERE id = ?", s.table),
	)
	if err != nil {
		return zero, fmt.Errorf("sqlite.Update: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, string(doc), id)
	if err != nil {
		return zero, fmt.Errorf("sqlite.Update: exec: %w", err)
	}
	if err := requireOneRow(result); err != nil {
		return zero, fmt.Errorf("sqlite.Update %q: %w", id, err)
	}
	return rec, nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	stmt, err := s.db.PrepareContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.table),
	)
	if err != nil {
		return fmt.Errorf("sqlite.Delete: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("sqlite.Delete: exec: %w", err)
	}
	if err := requireOneRow(result); err != nil {
		return fmt.Errorf("sqlite.Delete %q: %w", id, err)
	}
	return nil
}

func requireOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
}

func decode[T any](doc string) (T, error) {
	var rec T
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return rec, fmt.Errorf("decode document: %w", err)
	}
	return rec, nil
}

var _ storage.Store[types.Animal] = (*Store[types.Animal])(nil)
