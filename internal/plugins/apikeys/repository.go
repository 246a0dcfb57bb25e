package apikeys

import (
	"context"
	"database/sql"
	"time"
)

// KeyRepository defines persistence operations for API keys.
type KeyRepository interface {
	Create(ctx context.Context, key *APIKey) error
	FindByID(ctx context.Context, id int) (*APIKey, error)
	FindByPrefix(ctx context.Context, prefix string) (*APIKey, error)
	List(ctx context.Context) ([]APIKey, error)
	SetActive(ctx context.Context, id int, active bool) error
	Delete(ctx context.Context, id int) error
	TouchLastUsed(ctx context.Context, id int, at time.Time) error
}

// keyRepo is the MariaDB implementation of KeyRepository.
type keyRepo struct {
	db *sql.DB
}

// NewKeyRepository creates a new MariaDB-backed key repository.
func NewKeyRepository(db *sql.DB) KeyRepository {
	return &keyRepo{db: db}
}

// keyCols is the column list for API key queries.
const keyCols = `id, key_hash, key_prefix, name, is_active, last_used_at,
        expires_at, created_at, updated_at`

// scanKey reads a row into an APIKey struct.
func scanKey(scanner interface{ Scan(...any) error }) (*APIKey, error) {
	key := &APIKey{}
	err := scanner.Scan(&key.ID, &key.KeyHash, &key.KeyPrefix, &key.Name,
		&key.IsActive, &key.LastUsedAt, &key.ExpiresAt,
		&key.CreatedAt, &key.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return key, err
}

// Create inserts a new API key and backfills the generated ID.
func (r *keyRepo) Create(ctx context.Context, key *APIKey) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, key_prefix, name, is_active, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		key.KeyHash, key.KeyPrefix, key.Name, key.IsActive, key.ExpiresAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	key.ID = int(id)
	return nil
}

// FindByID returns a key by ID, or nil if absent.
func (r *keyRepo) FindByID(ctx context.Context, id int) (*APIKey, error) {
	return scanKey(r.db.QueryRowContext(ctx,
		`SELECT `+keyCols+` FROM api_keys WHERE id = ?`, id))
}

// FindByPrefix returns a key by its display prefix, or nil if absent.
func (r *keyRepo) FindByPrefix(ctx context.Context, prefix string) (*APIKey, error) {
	return scanKey(r.db.QueryRowContext(ctx,
		`SELECT `+keyCols+` FROM api_keys WHERE key_prefix = ?`, prefix))
}

// List returns all keys, newest first.
func (r *keyRepo) List(ctx context.Context) ([]APIKey, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+keyCols+` FROM api_keys ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []APIKey
	for rows.Next() {
		key, err := scanKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, *key)
	}
	return keys, rows.Err()
}

// SetActive toggles a key's active flag.
func (r *keyRepo) SetActive(ctx context.Context, id int, active bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET is_active = ? WHERE id = ?`, active, id)
	return err
}

// Delete removes a key permanently.
func (r *keyRepo) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = ?`, id)
	return err
}

// TouchLastUsed records the most recent successful authentication.
func (r *keyRepo) TouchLastUsed(ctx context.Context, id int, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used_at = ? WHERE id = ?`, at, id)
	return err
}
