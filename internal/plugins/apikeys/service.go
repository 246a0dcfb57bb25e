package apikeys

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/keyxmakerx/almanac/internal/apperror"
)

// keyBytes is the number of random bytes in a generated API key.
const keyBytes = 32

// keyPrefixLen is the length of the prefix stored for key identification.
const keyPrefixLen = 8

// KeyService handles business logic for API keys.
type KeyService interface {
	CreateKey(ctx context.Context, input CreateKeyInput) (*CreateKeyResult, error)
	ListKeys(ctx context.Context) ([]APIKey, error)
	ActivateKey(ctx context.Context, id int) error
	DeactivateKey(ctx context.Context, id int) error
	RevokeKey(ctx context.Context, id int) error

	// AuthenticateKey validates a raw bearer key against the stored hash.
	AuthenticateKey(ctx context.Context, rawKey string) (*APIKey, error)
}

// keyService implements KeyService.
type keyService struct {
	repo KeyRepository
}

// NewKeyService creates a new API key service.
func NewKeyService(repo KeyRepository) KeyService {
	return &keyService{repo: repo}
}

// CreateKey generates a new API key with bcrypt-hashed storage. The
// plaintext is returned once and never persisted.
func (s *keyService) CreateKey(ctx context.Context, input CreateKeyInput) (*CreateKeyResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewBadRequest("key name is required")
	}

	raw := make([]byte, keyBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("generating key: %w", err))
	}
	rawKey := "alm_" + hex.EncodeToString(raw)
	prefix := rawKey[:keyPrefixLen]

	hash, err := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing key: %w", err))
	}

	key := &APIKey{
		KeyHash:   string(hash),
		KeyPrefix: prefix,
		Name:      name,
		IsActive:  true,
		ExpiresAt: input.ExpiresAt,
	}
	if err := s.repo.Create(ctx, key); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating key: %w", err))
	}

	slog.Info("api key created", slog.String("prefix", prefix), slog.String("name", name))
	return &CreateKeyResult{Key: key, RawKey: rawKey}, nil
}

// ListKeys returns all registered keys.
func (s *keyService) ListKeys(ctx context.Context) ([]APIKey, error) {
	return s.repo.List(ctx)
}

// ActivateKey re-enables a deactivated key.
func (s *keyService) ActivateKey(ctx context.Context, id int) error {
	return s.setActive(ctx, id, true)
}

// DeactivateKey disables a key without deleting it.
func (s *keyService) DeactivateKey(ctx context.Context, id int) error {
	return s.setActive(ctx, id, false)
}

func (s *keyService) setActive(ctx context.Context, id int, active bool) error {
	key, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("finding key: %w", err))
	}
	if key == nil {
		return apperror.NewNotFound("api key not found")
	}
	return s.repo.SetActive(ctx, id, active)
}

// RevokeKey permanently deletes a key.
func (s *keyService) RevokeKey(ctx context.Context, id int) error {
	key, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("finding key: %w", err))
	}
	if key == nil {
		return apperror.NewNotFound("api key not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.NewInternal(fmt.Errorf("deleting key: %w", err))
	}
	slog.Info("api key revoked", slog.String("prefix", key.KeyPrefix))
	return nil
}

// AuthenticateKey looks the key up by its prefix and verifies the full
// value against the bcrypt hash. Inactive and expired keys fail closed.
func (s *keyService) AuthenticateKey(ctx context.Context, rawKey string) (*APIKey, error) {
	if len(rawKey) < keyPrefixLen || !strings.HasPrefix(rawKey, "alm_") {
		return nil, apperror.NewUnauthorized("invalid api key")
	}

	key, err := s.repo.FindByPrefix(ctx, rawKey[:keyPrefixLen])
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("finding key: %w", err))
	}
	if key == nil {
		return nil, apperror.NewUnauthorized("invalid api key")
	}
	if !key.IsActive {
		return nil, apperror.NewUnauthorized("api key is deactivated")
	}
	if key.IsExpired() {
		return nil, apperror.NewUnauthorized("api key has expired")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(rawKey)); err != nil {
		return nil, apperror.NewUnauthorized("invalid api key")
	}

	if err := s.repo.TouchLastUsed(ctx, key.ID, time.Now()); err != nil {
		slog.Warn("failed to record key usage", slog.Any("error", err))
	}
	return key, nil
}
