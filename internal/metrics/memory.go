// Package metrics samples process memory during a run and exposes the pool
// of an engine as Prometheus gauges.
package metrics

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	HeapSys      uint64 // bytes obtained from OS for heap
	Sys          uint64 // total bytes obtained from OS
	TotalAlloc   uint64 // cumulative bytes allocated
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
}

// MemoryCollector reads runtime memory statistics and remembers the highest
// heap seen since the last Reset.
type MemoryCollector struct {
	mu       sync.Mutex
	peakHeap uint64
	baseline MemorySnapshot
}

// NewMemoryCollector creates a collector whose baseline is the current state.
func NewMemoryCollector() *MemoryCollector {
	mc := &MemoryCollector{}
	mc.Reset()
	return mc
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s := MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		TotalAlloc:   m.TotalAlloc,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
	}
	mc.mu.Lock()
	mc.peakHeap = max(mc.peakHeap, s.HeapAlloc)
	mc.mu.Unlock()
	return s
}

// Reset makes the current state the baseline for Delta and clears the peak.
func (mc *MemoryCollector) Reset() {
	mc.mu.Lock()
	mc.peakHeap = 0
	mc.mu.Unlock()
	s := mc.Snapshot()
	mc.mu.Lock()
	mc.baseline = s
	mc.mu.Unlock()
}

// PeakHeap returns the highest HeapAlloc observed since Reset.
func (mc *MemoryCollector) PeakHeap() uint64 {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.peakHeap
}

// Delta returns the allocation and GC activity since Reset.
func (mc *MemoryCollector) Delta() MemorySnapshot {
	now := mc.Snapshot()
	mc.mu.Lock()
	base := mc.baseline
	mc.mu.Unlock()
	return MemorySnapshot{
		HeapAlloc:    now.HeapAlloc,
		HeapSys:      now.HeapSys,
		Sys:          now.Sys,
		TotalAlloc:   now.TotalAlloc - base.TotalAlloc,
		NumGC:        now.NumGC - base.NumGC,
		PauseTotalNs: now.PauseTotalNs - base.PauseTotalNs,
	}
}

// Watch samples every interval until ctx is done, so PeakHeap catches
// transient scratch that is gone by the end of a run.
func (mc *MemoryCollector) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mc.Snapshot()
		}
	}
}
