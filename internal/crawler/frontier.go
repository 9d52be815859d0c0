package crawler

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/sitescout/sitescout/internal/types"
)

const (
	// Bloom filter sized for the largest plausible single-site frontier
	// with a 1% false positive rate.
	bloomFilterCapacity = 1_000_000
)

// Frontier is a FIFO queue of discovered-but-not-fetched URLs with
// deduplication of everything ever enqueued. The bloom filter is a fast
// negative check; the exact seen map remains the authority so a false
// positive can never drop a URL.
type Frontier struct {
	mu    sync.Mutex
	queue []types.URLItem
	bloom *bloom.BloomFilter
	seen  map[string]bool
}

// NewFrontier creates an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{
		queue: make([]types.URLItem, 0),
		bloom: bloom.NewWithEstimates(bloomFilterCapacity, 0.01),
		seen:  make(map[string]bool),
	}
}

// Add enqueues item unless its URL was already enqueued during this crawl.
// Dedup is keyed by the absolute URL string; trailing slashes and query
// ordering are not normalized.
func (f *Frontier) Add(item types.URLItem) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := []byte(item.URL)
	if f.bloom.Test(key) && f.seen[item.URL] {
		return false
	}

	f.bloom.Add(key)
	f.seen[item.URL] = true
	f.queue = append(f.queue, item)
	return true
}

// Next pops the oldest pending URL in FIFO order.
func (f *Frontier) Next() (types.URLItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return types.URLItem{}, false
	}
	item := f.queue[0]
	f.queue = f.queue[1:]
	return item, true
}

// Seen reports whether url was ever enqueued.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bloom.Test([]byte(url)) && f.seen[url]
}

// SeenCount returns the number of distinct URLs ever enqueued.
func (f *Frontier) SeenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}

// Size returns the number of pending URLs.
func (f *Frontier) Size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// IsEmpty checks if the frontier has no more URLs
func (f *Frontier) IsEmpty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) == 0
}
