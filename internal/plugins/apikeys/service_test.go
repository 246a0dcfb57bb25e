package apikeys

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/keyxmakerx/almanac/internal/apperror"
)

// --- Mock Repository ---

// mockKeyRepo implements KeyRepository for testing.
type mockKeyRepo struct {
	createFn        func(ctx context.Context, key *APIKey) error
	findByIDFn      func(ctx context.Context, id int) (*APIKey, error)
	findByPrefixFn  func(ctx context.Context, prefix string) (*APIKey, error)
	listFn          func(ctx context.Context) ([]APIKey, error)
	setActiveFn     func(ctx context.Context, id int, active bool) error
	deleteFn        func(ctx context.Context, id int) error
	touchLastUsedFn func(ctx context.Context, id int, at time.Time) error
}

func (m *mockKeyRepo) Create(ctx context.Context, key *APIKey) error {
	if m.createFn != nil {
		return m.createFn(ctx, key)
	}
	key.ID = 1
	return nil
}

func (m *mockKeyRepo) FindByID(ctx context.Context, id int) (*APIKey, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockKeyRepo) FindByPrefix(ctx context.Context, prefix string) (*APIKey, error) {
	if m.findByPrefixFn != nil {
		return m.findByPrefixFn(ctx, prefix)
	}
	return nil, nil
}

func (m *mockKeyRepo) List(ctx context.Context) ([]APIKey, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockKeyRepo) SetActive(ctx context.Context, id int, active bool) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(ctx, id, active)
	}
	return nil
}

func (m *mockKeyRepo) Delete(ctx context.Context, id int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockKeyRepo) TouchLastUsed(ctx context.Context, id int, at time.Time) error {
	if m.touchLastUsedFn != nil {
		return m.touchLastUsedFn(ctx, id, at)
	}
	return nil
}

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// --- CreateKey Tests ---

func TestCreateKey_Success(t *testing.T) {
	var storedKey *APIKey
	repo := &mockKeyRepo{
		createFn: func(ctx context.Context, key *APIKey) error {
			storedKey = key
			key.ID = 42
			return nil
		},
	}

	svc := NewKeyService(repo)
	result, err := svc.CreateKey(context.Background(), CreateKeyInput{Name: "Importer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(result.RawKey, "alm_") {
		t.Errorf("expected raw key to start with alm_, got %s", result.RawKey[:8])
	}
	if storedKey.KeyHash == "" {
		t.Error("expected key hash to be set")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedKey.KeyHash), []byte(result.RawKey)); err != nil {
		t.Error("expected bcrypt hash to match raw key")
	}
	if storedKey.KeyPrefix != result.RawKey[:keyPrefixLen] {
		t.Errorf("expected prefix %s, got %s", result.RawKey[:keyPrefixLen], storedKey.KeyPrefix)
	}
	if !storedKey.IsActive {
		t.Error("expected key to be active")
	}
	if result.Key.ID != 42 {
		t.Errorf("expected ID 42, got %d", result.Key.ID)
	}
}

func TestCreateKey_EmptyName(t *testing.T) {
	svc := NewKeyService(&mockKeyRepo{})
	_, err := svc.CreateKey(context.Background(), CreateKeyInput{Name: "   "})
	assertAppError(t, err, 400)
}

func TestCreateKey_NameTrimming(t *testing.T) {
	var capturedName string
	repo := &mockKeyRepo{
		createFn: func(ctx context.Context, key *APIKey) error {
			capturedName = key.Name
			key.ID = 1
			return nil
		},
	}

	svc := NewKeyService(repo)
	if _, err := svc.CreateKey(context.Background(), CreateKeyInput{Name: "  My Key  "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capturedName != "My Key" {
		t.Errorf("expected trimmed name, got %q", capturedName)
	}
}

func TestCreateKey_RepoError(t *testing.T) {
	repo := &mockKeyRepo{
		createFn: func(ctx context.Context, key *APIKey) error {
			return errors.New("db error")
		},
	}

	svc := NewKeyService(repo)
	_, err := svc.CreateKey(context.Background(), CreateKeyInput{Name: "Test"})
	assertAppError(t, err, 500)
}

// --- AuthenticateKey Tests ---

func TestAuthenticateKey_Success(t *testing.T) {
	rawKey := "alm_abcdef1234567890abcdef1234567890abcdef1234567890abcdef12345678"
	hash, err := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt hash failed: %v", err)
	}

	var touched bool
	repo := &mockKeyRepo{
		findByPrefixFn: func(ctx context.Context, prefix string) (*APIKey, error) {
			if prefix != rawKey[:keyPrefixLen] {
				t.Errorf("expected prefix %s, got %s", rawKey[:keyPrefixLen], prefix)
			}
			return &APIKey{ID: 1, KeyHash: string(hash), IsActive: true}, nil
		},
		touchLastUsedFn: func(ctx context.Context, id int, at time.Time) error {
			touched = true
			return nil
		},
	}

	svc := NewKeyService(repo)
	key, err := svc.AuthenticateKey(context.Background(), rawKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key.ID != 1 {
		t.Errorf("expected key ID 1, got %d", key.ID)
	}
	if !touched {
		t.Error("expected last-used timestamp to be recorded")
	}
}

func TestAuthenticateKey_ShortKey(t *testing.T) {
	svc := NewKeyService(&mockKeyRepo{})
	_, err := svc.AuthenticateKey(context.Background(), "nope")
	assertAppError(t, err, 401)
}

func TestAuthenticateKey_WrongPrefix(t *testing.T) {
	svc := NewKeyService(&mockKeyRepo{})
	_, err := svc.AuthenticateKey(context.Background(), "chron_abcdef1234567890")
	assertAppError(t, err, 401)
}

func TestAuthenticateKey_PrefixNotFound(t *testing.T) {
	svc := NewKeyService(&mockKeyRepo{})
	_, err := svc.AuthenticateKey(context.Background(), "alm_nonexistent1234567890")
	assertAppError(t, err, 401)
}

func TestAuthenticateKey_WrongKey(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("alm_correct_key_here_000000000000000000000000000000000000000000"), bcrypt.DefaultCost)
	repo := &mockKeyRepo{
		findByPrefixFn: func(ctx context.Context, prefix string) (*APIKey, error) {
			return &APIKey{ID: 1, KeyHash: string(hash), IsActive: true}, nil
		},
	}

	svc := NewKeyService(repo)
	_, err := svc.AuthenticateKey(context.Background(), "alm_wrong_key_here_0000000000000000000000000000000000000000000")
	assertAppError(t, err, 401)
}

func TestAuthenticateKey_Deactivated(t *testing.T) {
	rawKey := "alm_test1234567890test1234567890test1234567890test1234567890test"
	hash, _ := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.DefaultCost)
	repo := &mockKeyRepo{
		findByPrefixFn: func(ctx context.Context, prefix string) (*APIKey, error) {
			return &APIKey{ID: 1, KeyHash: string(hash), IsActive: false}, nil
		},
	}

	svc := NewKeyService(repo)
	_, err := svc.AuthenticateKey(context.Background(), rawKey)
	assertAppError(t, err, 401)
}

func TestAuthenticateKey_Expired(t *testing.T) {
	rawKey := "alm_test1234567890test1234567890test1234567890test1234567890test"
	hash, _ := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.DefaultCost)
	expired := time.Now().Add(-1 * time.Hour)
	repo := &mockKeyRepo{
		findByPrefixFn: func(ctx context.Context, prefix string) (*APIKey, error) {
			return &APIKey{ID: 1, KeyHash: string(hash), IsActive: true, ExpiresAt: &expired}, nil
		},
	}

	svc := NewKeyService(repo)
	_, err := svc.AuthenticateKey(context.Background(), rawKey)
	assertAppError(t, err, 401)
}

// --- Activate / Deactivate / Revoke Tests ---

func TestActivateKey(t *testing.T) {
	var capturedActive bool
	repo := &mockKeyRepo{
		findByIDFn: func(ctx context.Context, id int) (*APIKey, error) {
			return &APIKey{ID: id}, nil
		},
		setActiveFn: func(ctx context.Context, id int, active bool) error {
			capturedActive = active
			return nil
		},
	}

	svc := NewKeyService(repo)
	if err := svc.ActivateKey(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !capturedActive {
		t.Error("expected active=true")
	}
}

func TestDeactivateKey(t *testing.T) {
	capturedActive := true
	repo := &mockKeyRepo{
		findByIDFn: func(ctx context.Context, id int) (*APIKey, error) {
			return &APIKey{ID: id}, nil
		},
		setActiveFn: func(ctx context.Context, id int, active bool) error {
			capturedActive = active
			return nil
		},
	}

	svc := NewKeyService(repo)
	if err := svc.DeactivateKey(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capturedActive {
		t.Error("expected active=false")
	}
}

func TestActivateKey_NotFound(t *testing.T) {
	svc := NewKeyService(&mockKeyRepo{})
	err := svc.ActivateKey(context.Background(), 99)
	assertAppError(t, err, 404)
}

func TestRevokeKey(t *testing.T) {
	var deletedID int
	repo := &mockKeyRepo{
		findByIDFn: func(ctx context.Context, id int) (*APIKey, error) {
			return &APIKey{ID: id, KeyPrefix: "alm_abcd"}, nil
		},
		deleteFn: func(ctx context.Context, id int) error {
			deletedID = id
			return nil
		},
	}

	svc := NewKeyService(repo)
	if err := svc.RevokeKey(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deletedID != 42 {
		t.Errorf("expected ID 42, got %d", deletedID)
	}
}

func TestRevokeKey_NotFound(t *testing.T) {
	svc := NewKeyService(&mockKeyRepo{})
	err := svc.RevokeKey(context.Background(), 99)
	assertAppError(t, err, 404)
}

// --- Model Tests ---

func TestAPIKey_IsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt *time.Time
		want      bool
	}{
		{"nil expiry (no expiration)", nil, false},
		{"future expiry", timePtr(time.Now().Add(1 * time.Hour)), false},
		{"past expiry", timePtr(time.Now().Add(-1 * time.Hour)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := &APIKey{ExpiresAt: tt.expiresAt}
			if got := key.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

// timePtr returns a pointer to a time value.
func timePtr(t time.Time) *time.Time {
	return &t
}
