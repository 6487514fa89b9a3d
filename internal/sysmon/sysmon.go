// Package sysmon samples system-wide CPU and memory usage.
package sysmon

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 `json:"cpu_percent"` // 0.0 .. 100.0
	MemPercent float64 `json:"mem_percent"` // 0.0 .. 100.0
	MemTotal   uint64  `json:"mem_total_bytes"`
	LogicalCPU int     `json:"logical_cpus"`
}

// Sampler returns a Stats snapshot. Sample is the production implementation;
// tests substitute fixed values.
type Sampler func(ctx context.Context) Stats

// Sample collects a system-wide snapshot. CPU usage is the delta since the
// previous call (interval 0). Fields that cannot be read are left zero.
func Sample(ctx context.Context) Stats {
	s := Stats{LogicalCPU: runtime.NumCPU()}
	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil && n > 0 {
		s.LogicalCPU = n
	}
	if vmem, err := mem.VirtualMemoryWithContext(ctx); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
		s.MemTotal = vmem.Total
	}
	return s
}
