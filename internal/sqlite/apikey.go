package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rpggio/doublediamond/internal/repository"
)

// APIKeyRepository stores hashed bearer tokens and resolves them to users
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Add registers a token for a user. Only the token hash is stored.
func (r *APIKeyRepository) Add(ctx context.Context, token, userID, description string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, user_id, created_at, description) VALUES (?, ?, ?, ?)`,
		HashToken(token), userID, time.Now(), description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to add api key: %w", err)
	}
	return nil
}

// ResolveUser returns the user owning a token and records its use
func (r *APIKeyRepository) ResolveUser(ctx context.Context, token string) (string, error) {
	hash := HashToken(token)
	var userID string
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&userID)
	if err == sql.ErrNoRows || (err == nil && userID == "") {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now(), hash); err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	return userID, nil
}

// HashToken returns the hex SHA-256 of a bearer token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
