package store

import "sync"

// claimSet tracks artifact names with an in-flight retrieval. Remote
// backends use it to enforce the at-most-once delivery guarantee within
// this process: a name stays claimed from GetOnce until the retrieval's
// Commit or Abort releases it.
type claimSet struct {
	mu    sync.Mutex
	names map[string]struct{}
}

func newClaimSet() *claimSet {
	return &claimSet{names: make(map[string]struct{})}
}

// tryClaim reports whether the caller won the claim on name. A false
// return means another retrieval holds it.
func (c *claimSet) tryClaim(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, taken := c.names[name]; taken {
		return false
	}
	c.names[name] = struct{}{}
	return true
}

func (c *claimSet) release(name string) {
	c.mu.Lock()
	delete(c.names, name)
	c.mu.Unlock()
}
