// Package pool provides a bounded string intern pool.
//
// Values loaded from a file are substrings of the whole file buffer. Interning
// them copies each distinct value once, so a typed table neither pins the
// file contents nor stores repeated categorical values more than once.
package pool

import (
	"strings"
	"sync"
	"sync/atomic"
)

// DefaultInternLimit bounds the number of distinct values one pool keeps.
const DefaultInternLimit = 1 << 16

// StringInternPool deduplicates strings up to a fixed number of distinct
// values. It is safe for concurrent use.
type StringInternPool struct {
	mu      sync.RWMutex
	strings map[string]string
	maxSize int
	size    int64
	hits    int64
	misses  int64
}

// NewStringInternPool creates a pool holding at most maxSize distinct
// strings. A non-positive maxSize means DefaultInternLimit.
func NewStringInternPool(maxSize int) *StringInternPool {
	if maxSize <= 0 {
		maxSize = DefaultInternLimit
	}
	return &StringInternPool{
		strings: make(map[string]string, min(maxSize, 1024)),
		maxSize: maxSize,
	}
}

// Intern returns a copy of s that shares storage with every earlier equal
// string. Once the pool is full, unseen strings are copied but not kept.
func (p *StringInternPool) Intern(s string) string {
	// Fast path: check if already interned
	p.mu.RLock()
	if interned, ok := p.strings[s]; ok {
		p.mu.RUnlock()
		atomic.AddInt64(&p.hits, 1)
		return interned
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if interned, ok := p.strings[s]; ok {
		atomic.AddInt64(&p.hits, 1)
		return interned
	}

	atomic.AddInt64(&p.misses, 1)
	owned := strings.Clone(s)
	if atomic.LoadInt64(&p.size) >= int64(p.maxSize) {
		return owned
	}
	p.strings[owned] = owned
	atomic.AddInt64(&p.size, 1)
	return owned
}

// Stats returns the number of kept strings, lookups served from the pool
// and lookups that had to copy.
func (p *StringInternPool) Stats() (size, hits, misses int64) {
	return atomic.LoadInt64(&p.size),
		atomic.LoadInt64(&p.hits),
		atomic.LoadInt64(&p.misses)
}

// Clear drops every kept string and resets the statistics.
func (p *StringInternPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.strings = make(map[string]string, min(p.maxSize, 1024))
	atomic.StoreInt64(&p.size, 0)
	atomic.StoreInt64(&p.hits, 0)
	atomic.StoreInt64(&p.misses, 0)
}
