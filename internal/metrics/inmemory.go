package metrics

import (
	"sync"
	"sync/atomic"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	InvoicesCreated      uint64
	InvoicesFailed       map[FailureKind]uint64
	PublicViewCacheHits   uint64
	PublicViewCacheMisses uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	invoicesCreated       uint64
	publicViewCacheHits   uint64
	publicViewCacheMisses uint64

	mu             sync.Mutex
	invoicesFailed map[FailureKind]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		invoicesFailed: make(map[FailureKind]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	failed := make(map[FailureKind]uint64, len(m.invoicesFailed))
	for kind, count := range m.invoicesFailed {
		failed[kind] = count
	}
	m.mu.Unlock()

	return Snapshot{
		InvoicesCreated:       atomic.LoadUint64(&m.invoicesCreated),
		InvoicesFailed:        failed,
		PublicViewCacheHits:   atomic.LoadUint64(&m.publicViewCacheHits),
		PublicViewCacheMisses: atomic.LoadUint64(&m.publicViewCacheMisses),
	}
}

// IncInvoiceCreated increments the created-invoice counter.
func (m *InMemoryRecorder) IncInvoiceCreated() {
	atomic.AddUint64(&m.invoicesCreated, 1)
}

// IncInvoiceFailed increments the failure counter for a kind.
func (m *InMemoryRecorder) IncInvoiceFailed(kind FailureKind) {
	m.mu.Lock()
	m.invoicesFailed[kind]++
	m.mu.Unlock()
}

// IncPublicViewCacheHit increments the viewer cache hit counter.
func (m *InMemoryRecorder) IncPublicViewCacheHit() {
	atomic.AddUint64(&m.publicViewCacheHits, 1)
}

// IncPublicViewCacheMiss increments the viewer cache miss counter.
func (m *InMemoryRecorder) IncPublicViewCacheMiss() {
	atomic.AddUint64(&m.publicViewCacheMisses, 1)
}
