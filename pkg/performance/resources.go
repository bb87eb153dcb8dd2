// Package performance samples process and host resource usage for the
// stats command.
package performance

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

// ResourceMonitor measures the current process from the moment it was
// created.
type ResourceMonitor struct {
	process      *process.Process
	startCPUTime float64
	startTime    time.Time
}

// NewResourceMonitor creates a resource monitor for the current process.
func NewResourceMonitor() (*ResourceMonitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: pids fit in int32
	if err != nil {
		return nil, tableerrors.Wrap(err, tableerrors.ErrorTypeInternal, "cannot inspect current process")
	}

	rm := &ResourceMonitor{process: proc, startTime: time.Now()}
	if cpuTime, err := proc.Times(); err == nil {
		rm.startCPUTime = cpuTime.Total()
	}
	return rm, nil
}

// ResourceUsage is one sample. Fields the platform cannot report stay zero.
type ResourceUsage struct {
	CPUPercent            float64
	MemoryRSS             uint64
	MemoryVMS             uint64
	HeapAlloc             uint64
	SystemMemoryPercent   float64
	SystemMemoryAvailable uint64
	GoroutineCount        int
	ThreadCount           int32
	OpenFDs               int32
}

// Usage samples the process now. It fails only when the resident set size,
// the one figure every supported platform provides, is unavailable.
func (rm *ResourceMonitor) Usage() (*ResourceUsage, error) {
	usage := &ResourceUsage{}

	memInfo, err := rm.process.MemoryInfo()
	if err != nil {
		return nil, tableerrors.Wrap(err, tableerrors.ErrorTypeInternal, "cannot read process memory")
	}
	usage.MemoryRSS = memInfo.RSS
	usage.MemoryVMS = memInfo.VMS

	if cpuTime, err := rm.process.Times(); err == nil {
		if elapsed := time.Since(rm.startTime).Seconds(); elapsed > 0 {
			usage.CPUPercent = ((cpuTime.Total() - rm.startCPUTime) / elapsed) * 100
		}
	}

	if vmStat, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemoryPercent = vmStat.UsedPercent
		usage.SystemMemoryAvailable = vmStat.Available
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	usage.HeapAlloc = ms.HeapAlloc

	usage.GoroutineCount = runtime.NumGoroutine()
	usage.ThreadCount, _ = rm.process.NumThreads()
	usage.OpenFDs, _ = rm.process.NumFDs()

	return usage, nil
}
