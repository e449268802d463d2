package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/integraledger/integra-api/internal/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/crypto/bcrypt"
)

const (
	// APIKeyLength is the length of the random part of the API key in bytes
	APIKeyLength = 32
	// APIKeyPrefix is the prefix for all API keys
	APIKeyPrefix = "igk"
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
)

// ErrAPIKeyInvalid is returned when a presented key fails validation
var ErrAPIKeyInvalid = errors.New("invalid API key")

// APIKeyService handles business logic for API key operations
type APIKeyService struct {
	db db.Querier
}

// NewAPIKeyService creates a new instance of APIKeyService
func NewAPIKeyService(database db.Querier) *APIKeyService {
	return &APIKeyService{
		db: database,
	}
}

// generateAPIKey generates a new secure API key. Returns the full key (shown
// once to the caller) and the key prefix used for lookup.
func (s *APIKeyService) generateAPIKey() (fullKey string, keyPrefix string, err error) {
	randomBytes := make([]byte, APIKeyLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	encodedKey := base64.RawURLEncoding.EncodeToString(randomBytes)
	fullKey = fmt.Sprintf("%s_%s", APIKeyPrefix, encodedKey)

	if len(encodedKey) >= 8 {
		keyPrefix = fmt.Sprintf("%s_%s", APIKeyPrefix, encodedKey[:8])
	} else {
		keyPrefix = fullKey
	}
	return fullKey, keyPrefix, nil
}

// CreateAPIKeyParams represents the parameters for creating an API key
type CreateAPIKeyParams struct {
	Name        string
	AccessLevel string
	ExpiresAt   *time.Time
}

// CreateAPIKey mints a new key and stores its bcrypt hash. The plaintext
// key is returned exactly once.
func (s *APIKeyService) CreateAPIKey(ctx context.Context, params CreateAPIKeyParams) (db.ApiKey, string, error) {
	fullKey, keyPrefix, err := s.generateAPIKey()
	if err != nil {
		return db.ApiKey{}, "", err
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(fullKey), BcryptCost)
	if err != nil {
		return db.ApiKey{}, "", fmt.Errorf("failed to hash API key: %w", err)
	}

	expiresAt := pgtype.Timestamptz{}
	if params.ExpiresAt != nil {
		expiresAt = pgtype.Timestamptz{Time: *params.ExpiresAt, Valid: true}
	}

	apiKey, err := s.db.CreateAPIKey(ctx, db.CreateAPIKeyParams{
		Name:        params.Name,
		KeyPrefix:   keyPrefix,
		KeyHash:     string(hashedBytes),
		AccessLevel: params.AccessLevel,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		return db.ApiKey{}, "", fmt.Errorf("failed to create API key: %w", err)
	}
	return apiKey, fullKey, nil
}

// ValidateAPIKey checks a presented key against the stored hash and expiry,
// touching last_used_at on success.
func (s *APIKeyService) ValidateAPIKey(ctx context.Context, presentedKey string) (db.ApiKey, error) {
	if len(presentedKey) < len(APIKeyPrefix)+1+8 {
		return db.ApiKey{}, ErrAPIKeyInvalid
	}
	keyPrefix := presentedKey[:len(APIKeyPrefix)+1+8]

	apiKey, err := s.db.GetAPIKeyByPrefix(ctx, keyPrefix)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.ApiKey{}, ErrAPIKeyInvalid
		}
		return db.ApiKey{}, fmt.Errorf("failed to look up API key: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(apiKey.KeyHash), []byte(presentedKey)); err != nil {
		return db.ApiKey{}, ErrAPIKeyInvalid
	}
	if apiKey.ExpiresAt.Valid && apiKey.ExpiresAt.Time.Before(time.Now()) {
		return db.ApiKey{}, ErrAPIKeyInvalid
	}

	// best effort, validation does not depend on the touch
	_ = s.db.UpdateAPIKeyLastUsed(ctx, apiKey.ID)
	return apiKey, nil
}

// DeleteAPIKey revokes a key by id.
func (s *APIKeyService) DeleteAPIKey(ctx context.Context, id string) error {
	keyID, err := parseUUID(id)
	if err != nil {
		return err
	}
	if err := s.db.DeleteAPIKey(ctx, keyID); err != nil {
		return fmt.Errorf("failed to delete API key: %w", err)
	}
	return nil
}
