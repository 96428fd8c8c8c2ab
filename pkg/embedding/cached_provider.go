package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedProvider memoizes vectors per (model-qualified) text so repeated
// persona saves and re-runs do not hit the inference endpoint again.
// Errors are never cached.
type CachedProvider struct {
	inner Provider
	cache *gocache.Cache
}

var _ Provider = &CachedProvider{}

func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &CachedProvider{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (p *CachedProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(text)
	if cached, found := p.cache.Get(key); found {
		return cached.([]float32), nil
	}

	vec, err := p.inner.Generate(ctx, text)
	if err != nil {
		return nil, err
	}

	p.cache.Set(key, vec, gocache.DefaultExpiration)
	return vec, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
