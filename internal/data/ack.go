package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
	"github.com/sleepguard/sleepguard/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// NewAckRepo creates the correlation store.
// An empty dbPath keeps the entries in memory.
func NewAckRepo(dbPath string) (repo.AckRepo, error) {
	if dbPath == "" {
		return NewMemoryAckRepo(), nil
	}
	return NewSQLiteAckRepo(dbPath)
}

// memoryAckRepo implements the ack repository in memory
type memoryAckRepo struct {
	mu      sync.RWMutex
	entries map[domain.AckKey]domain.AckEntry
}

// NewMemoryAckRepo creates an in-memory ack repository
func NewMemoryAckRepo() repo.AckRepo {
	return &memoryAckRepo{entries: make(map[domain.AckKey]domain.AckEntry)}
}

// Save saves an entry
func (r *memoryAckRepo) Save(ctx context.Context, entry *domain.AckEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.Key] = *entry
	return nil
}

// Get gets an entry
func (r *memoryAckRepo) Get(ctx context.Context, key domain.AckKey) (*domain.AckEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[key]
	if !ok {
		return nil, repo.ErrAckNotFound
	}
	return &entry, nil
}

// MarkAcknowledged records the first acknowledgement time
func (r *memoryAckRepo) MarkAcknowledged(ctx context.Context, key domain.AckKey, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[key]
	if !ok {
		return repo.ErrAckNotFound
	}
	if !entry.IsAcknowledged() {
		entry.AckedAt = at
		r.entries[key] = entry
	}
	return nil
}

// Close closes the repository
func (r *memoryAckRepo) Close() error {
	return nil
}

// sqliteAckRepo implements the ack repository on SQLite
type sqliteAckRepo struct {
	db *sql.DB
}

// NewSQLiteAckRepo creates a SQLite ack repository
func NewSQLiteAckRepo(dbPath string) (repo.AckRepo, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Callbacks arrive concurrently; serialize writers on one connection
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS acknowledgements (
			sender_id INTEGER NOT NULL,
			source_msg_id INTEGER NOT NULL,
			relay_msg_id INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			acked_at INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (sender_id, source_msg_id)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &sqliteAckRepo{db: db}, nil
}

// Save saves an entry (create or replace)
func (r *sqliteAckRepo) Save(ctx context.Context, entry *domain.AckEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO acknowledgements (sender_id, source_msg_id, relay_msg_id, created_at, acked_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		entry.Key.SenderID,
		entry.Key.MessageID,
		entry.RelayMessageID,
		entry.CreatedAt.Unix(),
		unixOrZero(entry.AckedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save acknowledgement: %w", err)
	}
	return nil
}

// Get gets an entry
func (r *sqliteAckRepo) Get(ctx context.Context, key domain.AckKey) (*domain.AckEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT relay_msg_id, created_at, acked_at
		FROM acknowledgements
		WHERE sender_id = ? AND source_msg_id = ?
	`, key.SenderID, key.MessageID)

	entry := domain.AckEntry{Key: key}
	var createdAt, ackedAt int64
	err := row.Scan(&entry.RelayMessageID, &createdAt, &ackedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repo.ErrAckNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query acknowledgement: %w", err)
	}

	entry.CreatedAt = time.Unix(createdAt, 0)
	if ackedAt != 0 {
		entry.AckedAt = time.Unix(ackedAt, 0)
	}
	return &entry, nil
}

// MarkAcknowledged records the first acknowledgement time
func (r *sqliteAckRepo) MarkAcknowledged(ctx context.Context, key domain.AckKey, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE acknowledgements SET acked_at = ?
		WHERE sender_id = ? AND source_msg_id = ? AND acked_at = 0
	`, at.Unix(), key.SenderID, key.MessageID)
	if err != nil {
		return fmt.Errorf("failed to mark acknowledgement: %w", err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// Nothing updated: either already acknowledged or unknown
	if _, err := r.Get(ctx, key); err != nil {
		return err
	}
	return nil
}

// Close closes the database connection
func (r *sqliteAckRepo) Close() error {
	return r.db.Close()
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
