// Package userprofile reads and writes the per-user relay configuration:
// the forwarding URL and the shared secret sent along with every relay call.
package userprofile

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/DIMO-Network/line-webhook-relay/internal/services/kvstore"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SecretPrefix starts every generated secret.
const SecretPrefix = "relay_"

var userIDPattern = regexp.MustCompile(`^U[0-9a-f]{32}$`)

// ValidUserID reports whether id has the shape of a platform user id.
func ValidUserID(id string) bool {
	return userIDPattern.MatchString(id)
}

// NewSecret returns a fresh secret: SecretPrefix followed by 32 random hex characters.
func NewSecret() string {
	return SecretPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Config is the relay configuration of one user.
type Config struct {
	// URL is empty until the user sets one.
	URL    string
	Secret string
}

// Service loads and saves user configs in a key/value store.
type Service struct {
	store kvstore.Store
}

func NewService(store kvstore.Store) *Service {
	return &Service{store: store}
}

// Load returns the config of a user. A user without a secret gets one
// generated and persisted, so the returned secret is never empty.
func (s *Service) Load(ctx context.Context, userID string) (Config, error) {
	var cfg Config
	url, _, err := s.store.Get(ctx, urlKey(userID))
	if err != nil {
		return cfg, fmt.Errorf("failed to load url: %w", err)
	}
	cfg.URL = url

	secret, found, err := s.store.Get(ctx, secretKey(userID))
	if err != nil {
		return cfg, fmt.Errorf("failed to load secret: %w", err)
	}
	if !found || secret == "" {
		secret = NewSecret()
		if err := s.store.Set(ctx, secretKey(userID), secret); err != nil {
			return cfg, fmt.Errorf("failed to save generated secret: %w", err)
		}
		zerolog.Ctx(ctx).Info().Str("user_id", userID).Msg("Generated secret for new user")
	}
	cfg.Secret = secret
	return cfg, nil
}

// Save persists cfg. An empty URL is not written so an unset URL stays unset.
func (s *Service) Save(ctx context.Context, userID string, cfg Config) error {
	if cfg.URL != "" {
		if err := s.store.Set(ctx, urlKey(userID), cfg.URL); err != nil {
			return fmt.Errorf("failed to save url: %w", err)
		}
	}
	if cfg.Secret != "" {
		if err := s.store.Set(ctx, secretKey(userID), cfg.Secret); err != nil {
			return fmt.Errorf("failed to save secret: %w", err)
		}
	}
	return nil
}

func urlKey(userID string) string    { return userID + ".url" }
func secretKey(userID string) string { return userID + ".secret" }
