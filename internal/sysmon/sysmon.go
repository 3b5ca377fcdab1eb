// Package sysmon samples system-wide and per-process resource usage for the
// dashboard header.
package sysmon

import (
	"context"
	"os"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Stats holds a single snapshot of resource usage.
type Stats struct {
	CPUPercent float64 // system-wide, 0.0 .. 100.0
	MemPercent float64 // system-wide, 0.0 .. 100.0
	RSS        uint64  // resident set size of this process, bytes
	Threads    int32   // OS threads of this process
}

// Sampler reads Stats for the current process.
type Sampler struct {
	proc *process.Process
}

// NewSampler creates a sampler bound to the running process. When the
// process handle cannot be opened, per-process fields stay zero.
func NewSampler() *Sampler {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		p = nil
	}
	return &Sampler{proc: p}
}

// Sample collects one snapshot. CPU uses interval 0, the delta since the
// previous call. Fields that cannot be read are left at zero.
func (s *Sampler) Sample(ctx context.Context) Stats {
	var st Stats
	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pcts) > 0 {
		st.CPUPercent = pcts[0]
	}
	if vmem, err := mem.VirtualMemoryWithContext(ctx); err == nil && vmem != nil {
		st.MemPercent = vmem.UsedPercent
	}
	if s.proc != nil {
		if info, err := s.proc.MemoryInfoWithContext(ctx); err == nil && info != nil {
			st.RSS = info.RSS
		}
		if n, err := s.proc.NumThreadsWithContext(ctx); err == nil {
			st.Threads = n
		}
	}
	return st
}

// Sample collects a snapshot with a fresh Sampler.
func Sample(ctx context.Context) Stats {
	return NewSampler().Sample(ctx)
}
