package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNew_InvalidSize(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Error("expected error for zero size")
	}
}

func TestBytes_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatal(err)
	}

	c.Add("a", []byte("A"))
	c.Add("b", []byte("B"))
	c.Get("a") // a is now most recent
	c.Add("c", []byte("C"))

	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if data, ok := c.Get("a"); !ok || string(data) != "A" {
		t.Error("expected a to survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to be present")
	}
}

func TestBytes_BoundHolds(t *testing.T) {
	c, _ := New(100)
	for i := 0; i < 250; i++ {
		c.Add(fmt.Sprintf("file-%d", i), []byte{byte(i)})
	}
	if c.Len() != 100 {
		t.Errorf("expected 100 entries, got %d", c.Len())
	}
}

func TestGetOrFetch_CachesSuccess(t *testing.T) {
	c, _ := New(10)
	var calls int32
	fetch := func(ctx context.Context, id string) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("data-" + id), nil
	}

	for i := 0; i < 3; i++ {
		data, err := c.GetOrFetch(context.Background(), "x", fetch)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "data-x" {
			t.Errorf("unexpected data %q", data)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 download, got %d", calls)
	}

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Entries != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestGetOrFetch_DoesNotCacheErrors(t *testing.T) {
	c, _ := New(10)
	boom := errors.New("boom")
	_, err := c.GetOrFetch(context.Background(), "x", func(ctx context.Context, id string) ([]byte, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if c.Len() != 0 {
		t.Error("failed download must not be cached")
	}
}

func TestGetOrFetch_ConcurrentMissesShareDownload(t *testing.T) {
	c, _ := New(10)
	var calls int32
	release := make(chan struct{})
	fetch := func(ctx context.Context, id string) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte("v"), nil
	}

	var wg sync.WaitGroup
	started := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		close(started)
		_, _ = c.GetOrFetch(context.Background(), "x", fetch)
	}()
	<-started

	// Wait until the first caller has registered its download.
	for {
		c.mu.Lock()
		_, ok := c.inflight["x"]
		c.mu.Unlock()
		if ok {
			break
		}
	}

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := c.GetOrFetch(context.Background(), "x", fetch)
			if err != nil || string(data) != "v" {
				t.Errorf("unexpected result %q, %v", data, err)
			}
		}()
	}
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Errorf("expected 1 download, got %d", calls)
	}
}

func TestGetOrFetch_FirstCallerCancelDoesNotFailOthers(t *testing.T) {
	c, _ := New(10)
	release := make(chan struct{})
	fetchStarted := make(chan struct{})
	fetch := func(ctx context.Context, id string) ([]byte, error) {
		close(fetchStarted)
		select {
		case <-release:
			return []byte("clip"), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.GetOrFetch(firstCtx, "x", fetch)
		firstErr <- err
	}()
	<-fetchStarted

	type result struct {
		data []byte
		err  error
	}
	second := make(chan result, 1)
	go func() {
		data, err := c.GetOrFetch(context.Background(), "x", fetch)
		second <- result{data, err}
	}()

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller: expected context.Canceled, got %v", err)
	}

	close(release)
	got := <-second
	if got.err != nil || string(got.data) != "clip" {
		t.Fatalf("live caller: got %q, %v; want clip", got.data, got.err)
	}
	if _, ok := c.Get("x"); !ok {
		t.Error("download finished after the first caller left and should be cached")
	}
}
