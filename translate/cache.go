package translate

import "sync"

// resultCache memoises translations by source text. Five parallel targets
// scrape the same listing, so without it the same five headlines would hit
// the endpoint twenty-five times per remote run.
type resultCache struct {
	mu    sync.RWMutex
	store map[string]string
}

func newResultCache() *resultCache {
	return &resultCache{store: make(map[string]string)}
}

func (c *resultCache) get(text string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.store[text]
	return v, ok
}

func (c *resultCache) set(text, translated string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[text] = translated
}
