package offline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

var _ Storage = (*SQLStorage)(nil)

// SQLStorage persists caches in the cache_entries and cache_names tables so
// they survive an edge restart.
type SQLStorage struct {
	db *sql.DB
}

func NewSQLStorage(db *sql.DB) *SQLStorage {
	return &SQLStorage{db: db}
}

func (s *SQLStorage) Open(ctx context.Context, name string) (Cache, error) {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO cache_names (name, created_at) VALUES (?, ?) ON CONFLICT(name) DO NOTHING",
		name, time.Now().UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", name, err)
	}
	return &sqlCache{db: s.db, name: name}, nil
}

func (s *SQLStorage) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM cache_names ORDER BY created_at, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLStorage) Delete(ctx context.Context, name string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cache_entries WHERE cache_name = ?", name); err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM cache_names WHERE name = ?", name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return n > 0, nil
}

type sqlCache struct {
	db   *sql.DB
	name string
}

func (c *sqlCache) Match(ctx context.Context, key string) (*Entry, bool, error) {
	var (
		status   int
		blob     []byte
		body     []byte
		storedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT status, header_blob, body, stored_at FROM cache_entries WHERE cache_name = ? AND request_key = ?",
		c.name, key).Scan(&status, &blob, &body, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	header := http.Header{}
	if len(blob) > 0 {
		if err := msgpack.Unmarshal(blob, &header); err != nil {
			log.Error("Failed to decode cached headers", "error", err, "cache", c.name, "key", key)
			return nil, false, err
		}
	}
	return &Entry{
		Status:   status,
		Header:   header,
		Body:     body,
		StoredAt: time.UnixMilli(storedAt),
	}, true, nil
}

func (c *sqlCache) Put(ctx context.Context, key string, entry *Entry) error {
	blob, err := msgpack.Marshal(entry.Header)
	if err != nil {
		return fmt.Errorf("failed to encode headers: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO cache_entries (cache_name, request_key, status, header_blob, body, stored_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(cache_name, request_key) DO UPDATE SET
			status = excluded.status,
			header_blob = excluded.header_blob,
			body = excluded.body,
			stored_at = excluded.stored_at`,
		c.name, key, entry.Status, blob, entry.Body, entry.StoredAt.UnixMilli())
	return err
}

func (c *sqlCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE cache_name = ? AND request_key = ?", c.name, key)
	return err
}
