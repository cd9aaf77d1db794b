package reputation

import (
	"sync"
	"time"

	"pdfSentinel/internal/model"
)

type cacheEntry struct {
	verdict  model.ReputationVerdict
	expireAt time.Time
}

// verdictCache 按摘要缓存成功的查询结论
type verdictCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[model.Fingerprint]cacheEntry
	now     func() time.Time
}

func newVerdictCache(ttl time.Duration) *verdictCache {
	return &verdictCache{
		ttl:     ttl,
		entries: make(map[model.Fingerprint]cacheEntry),
		now:     time.Now,
	}
}

func (c *verdictCache) get(fp model.Fingerprint) (model.ReputationVerdict, bool) {
	if c.ttl <= 0 {
		return model.ReputationVerdict{}, false
	}

	c.mu.RLock()
	e, ok := c.entries[fp]
	c.mu.RUnlock()

	if !ok {
		return model.ReputationVerdict{}, false
	}
	if c.now().After(e.expireAt) {
		c.mu.Lock()
		delete(c.entries, fp)
		c.mu.Unlock()
		return model.ReputationVerdict{}, false
	}
	return e.verdict, true
}

// put 只缓存真实查询成功的结论
func (c *verdictCache) put(fp model.Fingerprint, v model.ReputationVerdict) {
	if c.ttl <= 0 || !v.Queried || v.FailureReason != "" {
		return
	}
	c.mu.Lock()
	c.entries[fp] = cacheEntry{verdict: v, expireAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *verdictCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
