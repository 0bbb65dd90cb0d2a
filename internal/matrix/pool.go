package matrix

import (
	"sync"

	apperrors "github.com/agbru/matcalc/internal/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Pool
// ─────────────────────────────────────────────────────────────────────────────

// Pool recycles square matrices by exact size. Each size has its own LIFO
// stack, so the most recently released matrix is handed out first while it is
// still warm in cache.
//
// A matrix returned by Acquire belongs to the caller until it is released.
// Released matrices are not zeroed: callers overwrite the whole matrix before
// reading it.
//
// One mutex guards the buckets and the counters. It is only held for
// constant-time bookkeeping; allocation happens outside the lock.
type Pool struct {
	mu          sync.Mutex
	buckets     map[int][]*Matrix
	outstanding map[int]int
	hits        uint64
	misses      uint64
	allocated   uint64
	limit       uint64
}

// PoolStats is a snapshot of a pool's counters.
type PoolStats struct {
	Hits   uint64
	Misses uint64
	// AllocatedBytes counts storage allocated by the pool that has not been
	// dropped by Clear, whether checked out or retained.
	AllocatedBytes uint64
	// Limit is the byte budget, zero when unbounded.
	Limit uint64
	// Outstanding maps a size to the number of matrices currently checked out.
	Outstanding map[int]int
	// Retained maps a size to the number of matrices waiting for reuse.
	Retained map[int]int
}

// HitRate returns hits / (hits + misses), or 0 before the first Acquire.
func (s PoolStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// TotalOutstanding sums Outstanding over all sizes.
func (s PoolStats) TotalOutstanding() int {
	total := 0
	for _, n := range s.Outstanding {
		total += n
	}
	return total
}

// NewPool creates an empty pool. A non-zero limit caps the bytes the pool may
// allocate; see Acquire.
func NewPool(limit uint64) *Pool {
	return &Pool{
		buckets:     make(map[int][]*Matrix),
		outstanding: make(map[int]int),
		limit:       limit,
	}
}

// Acquire returns a size x size matrix, reusing the most recently released
// one of that size when there is one. Otherwise it allocates a zeroed matrix;
// when that allocation would take the pool past its byte budget it fails with
// apperrors.MemoryError instead.
func (p *Pool) Acquire(size int) (*Matrix, error) {
	if size <= 0 {
		return nil, apperrors.NewValidationError("size", "must be positive, got %d", size)
	}

	p.mu.Lock()
	if stack := p.buckets[size]; len(stack) > 0 {
		m := stack[len(stack)-1]
		stack[len(stack)-1] = nil
		p.buckets[size] = stack[:len(stack)-1]
		p.hits++
		p.outstanding[size]++
		p.mu.Unlock()
		return m, nil
	}

	p.misses++
	need := Bytes(size)
	if p.limit > 0 && p.allocated+need > p.limit {
		available := uint64(0)
		if p.limit > p.allocated {
			available = p.limit - p.allocated
		}
		limit := p.limit
		p.mu.Unlock()
		return nil, apperrors.MemoryError{Requested: need, Available: available, Limit: limit}
	}
	p.allocated += need
	p.outstanding[size]++
	p.mu.Unlock()

	return New(size), nil
}

// Release hands m back to the pool for reuse. Nil is ignored.
func (p *Pool) Release(m *Matrix) {
	if m == nil {
		return
	}
	p.mu.Lock()
	p.buckets[m.Size] = append(p.buckets[m.Size], m)
	if p.outstanding[m.Size] > 0 {
		p.outstanding[m.Size]--
	}
	p.mu.Unlock()
}

// Clear drops every retained matrix so the garbage collector can reclaim it.
// The hit and miss counters are kept. Matrices checked out when Clear runs
// may still be released afterwards.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for size, stack := range p.buckets {
		freed := Bytes(size) * uint64(len(stack))
		if freed > p.allocated {
			freed = p.allocated
		}
		p.allocated -= freed
	}
	p.buckets = make(map[int][]*Matrix)
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := PoolStats{
		Hits:           p.hits,
		Misses:         p.misses,
		AllocatedBytes: p.allocated,
		Limit:          p.limit,
		Outstanding:    make(map[int]int, len(p.outstanding)),
		Retained:       make(map[int]int, len(p.buckets)),
	}
	for size, n := range p.outstanding {
		if n > 0 {
			s.Outstanding[size] = n
		}
	}
	for size, stack := range p.buckets {
		if len(stack) > 0 {
			s.Retained[size] = len(stack)
		}
	}
	return s
}
