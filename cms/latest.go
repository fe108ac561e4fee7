package cms

import "sync"

// LatestGuard orders concurrent fetches of the same resource so that a slow
// response can never overwrite the result of one that started after it. Call
// Begin before the fetch and Commit with the returned sequence once the
// result is ready; a false Commit means a newer fetch already landed and this
// result must be discarded.
type LatestGuard struct {
	mu        sync.Mutex
	issued    map[string]uint64
	committed map[string]uint64
}

func NewLatestGuard() *LatestGuard {
	return &LatestGuard{
		issued:    make(map[string]uint64),
		committed: make(map[string]uint64),
	}
}

// Begin registers a fetch of resource and returns its sequence number
func (g *LatestGuard) Begin(resource string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued[resource]++
	return g.issued[resource]
}

// Commit reports whether the fetch with sequence seq is still the newest
// completed one; if so it becomes the committed result
func (g *LatestGuard) Commit(resource string, seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq <= g.committed[resource] {
		return false
	}
	g.committed[resource] = seq
	return true
}
