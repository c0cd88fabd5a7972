// Package cache keeps recently downloaded Drive files in memory.
package cache

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Fetcher downloads the content of one file.
type Fetcher func(ctx context.Context, fileID string) ([]byte, error)

// Bytes is a bounded LRU cache from file ID to content.
// Safe for concurrent use. Concurrent misses for the same ID share one download.
type Bytes struct {
	entries *lru.Cache[string, []byte]

	mu       sync.Mutex
	inflight map[string]*call

	hits   uint64
	misses uint64
}

type call struct {
	done chan struct{}
	data []byte
	err  error
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// New creates a cache holding at most size entries.
func New(size int) (*Bytes, error) {
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Bytes{
		entries:  entries,
		inflight: make(map[string]*call),
	}, nil
}

// Get returns the cached bytes for fileID, if present.
func (b *Bytes) Get(fileID string) ([]byte, bool) {
	data, ok := b.entries.Get(fileID)
	b.mu.Lock()
	if ok {
		b.hits++
	} else {
		b.misses++
	}
	b.mu.Unlock()
	return data, ok
}

// Add stores data under fileID, evicting the least recently used entry when full.
func (b *Bytes) Add(fileID string, data []byte) {
	b.entries.Add(fileID, data)
}

// GetOrFetch returns the cached bytes for fileID or downloads them with fetch.
// The download is shared by every concurrent caller and is not tied to any
// one caller's cancellation; each caller stops waiting when its own ctx ends.
// Failed downloads are not cached.
func (b *Bytes) GetOrFetch(ctx context.Context, fileID string, fetch Fetcher) ([]byte, error) {
	if data, ok := b.Get(fileID); ok {
		return data, nil
	}

	b.mu.Lock()
	c, ok := b.inflight[fileID]
	if !ok {
		c = &call{done: make(chan struct{})}
		b.inflight[fileID] = c
		go b.run(context.WithoutCancel(ctx), fileID, fetch, c)
	}
	b.mu.Unlock()

	select {
	case <-c.done:
		return c.data, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *Bytes) run(ctx context.Context, fileID string, fetch Fetcher, c *call) {
	c.data, c.err = fetch(ctx, fileID)
	if c.err == nil {
		b.entries.Add(fileID, c.data)
	}

	b.mu.Lock()
	delete(b.inflight, fileID)
	b.mu.Unlock()
	close(c.done)
}

// Len returns the number of cached entries.
func (b *Bytes) Len() int {
	return b.entries.Len()
}

// Stats returns current counters.
func (b *Bytes) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{Entries: b.entries.Len(), Hits: b.hits, Misses: b.misses}
}
