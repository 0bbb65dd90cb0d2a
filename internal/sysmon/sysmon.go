// Package sysmon samples host resources: CPU and memory load, the memory
// still available for operands and scratch, and the CPU's vector features.
package sysmon

import (
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	xcpu "golang.org/x/sys/cpu"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// AvailableMemory returns the bytes the OS reports as available, or 0 when
// it cannot tell.
func AvailableMemory() uint64 {
	vmem, err := mem.VirtualMemory()
	if err != nil || vmem == nil {
		return 0
	}
	return vmem.Available
}

// CPUFeatures lists the vector extensions the inner multiply loops may be
// auto-vectorized with, e.g. "avx2 fma".
func CPUFeatures() string {
	var feats []string
	add := func(ok bool, name string) {
		if ok {
			feats = append(feats, name)
		}
	}
	add(xcpu.X86.HasSSE42, "sse4.2")
	add(xcpu.X86.HasAVX, "avx")
	add(xcpu.X86.HasAVX2, "avx2")
	add(xcpu.X86.HasFMA, "fma")
	add(xcpu.X86.HasAVX512F, "avx512f")
	add(xcpu.ARM64.HasASIMD, "asimd")
	add(xcpu.ARM64.HasSVE, "sve")
	if len(feats) == 0 {
		return "none"
	}
	return strings.Join(feats, " ")
}
