package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/andy/invoicebook/internal/db"
)

// SQLKV is a SQLite implementation of KV backed by the kv_store table
type SQLKV struct {
	db    *db.DB
	quota int64
}

// NewSQLKV creates a new SQLKV. quotaBytes <= 0 disables the quota check.
func NewSQLKV(database *db.DB, quotaBytes int64) *SQLKV {
	return &SQLKV{db: database, quota: quotaBytes}
}

// Get returns the stored blob or ErrKeyNotFound
func (kv *SQLKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := kv.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get %q: %w", key, err)
	}
	return value, nil
}

// Set inserts or replaces the blob stored under key
func (kv *SQLKV) Set(ctx context.Context, key string, value []byte) error {
	tx, err := kv.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if kv.quota > 0 {
		var used int64
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(LENGTH(key) + LENGTH(value)), 0) FROM kv_store WHERE key != ?`,
			key,
		).Scan(&used)
		if err != nil {
			return fmt.Errorf("failed to measure storage usage: %w", err)
		}
		if used+blobSize(key, value) > kv.quota {
			return fmt.Errorf("%w: %d of %d bytes in use", ErrQuotaExceeded, used, kv.quota)
		}
	}

	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := tx.ExecContext(ctx, query, key, value, formatTime()); err != nil {
		return fmt.Errorf("failed to set %q: %w", key, classifyWriteErr(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %q: %w", key, classifyWriteErr(err))
	}
	return nil
}

// Delete removes the key; deleting an absent key is not an error
func (kv *SQLKV) Delete(ctx context.Context, key string) error {
	if _, err := kv.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// classifyWriteErr maps SQLite's full-database error onto ErrQuotaExceeded
func classifyWriteErr(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "database or disk is full") || strings.Contains(msg, "SQLITE_FULL") {
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	}
	return err
}
