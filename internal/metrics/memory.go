// Package metrics samples Go runtime memory statistics around a kernel
// evaluation for the CLI's verbose report.
package metrics

import (
	"runtime"
	"time"
)

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by the heap
	TotalAlloc   uint64 // cumulative bytes allocated
	Sys          uint64 // total bytes obtained from the OS
	NumGC        uint32 // completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	Taken        time.Time
}

// MemoryUsage is the difference between two snapshots.
type MemoryUsage struct {
	PeakHeap  uint64
	Allocated uint64
	GCCycles  uint32
	GCPause   time.Duration
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct {
	read func(*runtime.MemStats)
}

// NewMemoryCollector returns a collector backed by runtime.ReadMemStats.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{read: runtime.ReadMemStats}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	mc.read(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		Taken:        time.Now(),
	}
}

// Since returns the usage between before and after. PeakHeap is the larger of
// the two heap readings; the runtime does not expose a true high-water mark.
func Since(before, after MemorySnapshot) MemoryUsage {
	u := MemoryUsage{PeakHeap: max(before.HeapAlloc, after.HeapAlloc)}
	if after.TotalAlloc >= before.TotalAlloc {
		u.Allocated = after.TotalAlloc - before.TotalAlloc
	}
	if after.NumGC >= before.NumGC {
		u.GCCycles = after.NumGC - before.NumGC
	}
	if after.PauseTotalNs >= before.PauseTotalNs {
		u.GCPause = time.Duration(after.PauseTotalNs - before.PauseTotalNs)
	}
	return u
}
