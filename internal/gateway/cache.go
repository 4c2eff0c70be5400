package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"prepcoach/internal/models"
)

// AnalysisCache keeps resume analyses keyed by a digest of the resume text.
type AnalysisCache struct {
	cache map[string]*cacheEntry
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
}

type cacheEntry struct {
	analysis  models.ResumeAnalysis
	expiresAt time.Time
}

func NewAnalysisCache(ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{
		cache: make(map[string]*cacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (c *AnalysisCache) Set(text string, analysis models.ResumeAnalysis) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[cacheKey(text)] = &cacheEntry{analysis: analysis, expiresAt: c.now().Add(c.ttl)}
}

// Get returns a copy of a live entry.
func (c *AnalysisCache) Get(text string) (models.ResumeAnalysis, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.cache[cacheKey(text)]
	if !exists || c.now().After(entry.expiresAt) {
		return models.ResumeAnalysis{}, false
	}
	return entry.analysis, true
}

// Cleanup drops expired entries; the gateway calls it on every write.
func (c *AnalysisCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.cache {
		if now.After(entry.expiresAt) {
			delete(c.cache, key)
		}
	}
}

func (c *AnalysisCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
