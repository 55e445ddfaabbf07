package cookiejar

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DIMO-Network/line-webhook-relay/internal/services/kvstore"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

// Registry hands out the jar of each user. Jars are cached in memory and
// evicted after ttl without use; an evicted jar is reloaded from the store.
type Registry struct {
	cache *cache.Cache
	store kvstore.Store
}

// NewRegistry creates a new registry.
func NewRegistry(store kvstore.Store, ttl time.Duration) *Registry {
	return &Registry{
		cache: cache.New(ttl, ttl),
		store: store,
	}
}

// GetJar returns the jar of userID, loading it from the store on first use.
func (r *Registry) GetJar(ctx context.Context, userID string) (*Jar, error) {
	if cached, found := r.cache.Get(userID); found {
		jar := cached.(*Jar)
		// refresh the expiration so active users keep their jar in memory
		r.cache.SetDefault(userID, jar)
		return jar, nil
	}

	jar, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Add(userID, jar, cache.DefaultExpiration); err != nil {
		// another request loaded the jar first
		if cached, found := r.cache.Get(userID); found {
			return cached.(*Jar), nil
		}
		r.cache.SetDefault(userID, jar)
	}
	return jar, nil
}

// Save persists the current cookies of a user's jar.
func (r *Registry) Save(ctx context.Context, userID string, jar *Jar) error {
	data, err := json.Marshal(jar.Entries())
	if err != nil {
		return fmt.Errorf("failed to marshal cookie jar: %w", err)
	}
	if err := r.store.Set(ctx, jarKey(userID), string(data)); err != nil {
		return fmt.Errorf("failed to save cookie jar: %w", err)
	}
	return nil
}

func (r *Registry) load(ctx context.Context, userID string) (*Jar, error) {
	data, found, err := r.store.Get(ctx, jarKey(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to load cookie jar: %w", err)
	}
	if !found || data == "" {
		return NewJar(nil), nil
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("Discarding unreadable cookie jar")
		return NewJar(nil), nil
	}
	return NewJar(entries), nil
}

func jarKey(userID string) string { return userID + ".cookies" }
