package services

import (
	"fmt"
	"time"

	"machmon/internal/models"
)

// Categories selects which optional metric categories a snapshot includes.
// System, CPU and memory are always extracted: the monitoring triggers
// depend on them.
type Categories struct {
	Disk      bool
	Processes bool
}

// CategoryError records a single metric category that could not be read.
// The category is omitted from the snapshot; the rest are unaffected.
type CategoryError struct {
	Category string
	Err      error
}

func (e CategoryError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Category, e.Err)
}

// Extractors is the set of stateless extraction functions a Producer uses.
// Injected rather than called directly so tests can substitute stubs.
type Extractors struct {
	System    func() (*models.SystemInfo, error)
	CPU       func() (*models.CPUInfo, error)
	Memory    func() (*models.MemoryInfo, error)
	Disk      func() (*models.DiskInfo, error)
	Processes func() (*models.ProcessInfo, error)
}

// DefaultExtractors returns the gopsutil-backed extractor set
func DefaultExtractors() Extractors {
	return Extractors{
		System:    ExtractSystem,
		CPU:       ExtractCPU,
		Memory:    ExtractMemory,
		Disk:      ExtractDisk,
		Processes: ExtractProcesses,
	}
}

// Producer assembles point-in-time snapshots from its extractor set
type Producer struct {
	ex Extractors
}

// NewProducer creates a snapshot producer over the given extractors
func NewProducer(ex Extractors) *Producer {
	return &Producer{ex: ex}
}

// Produce takes one snapshot. Each category fails independently: a failed
// category is left out of the snapshot and reported in the returned slice,
// never aborting the remaining categories.
func (p *Producer) Produce(include Categories) (*models.Snapshot, []CategoryError) {
	snap := &models.Snapshot{Timestamp: time.Now()}
	var failures []CategoryError

	if p.ex.System != nil {
		system, err := p.ex.System()
		if err != nil {
			failures = append(failures, CategoryError{Category: "system", Err: err})
		} else {
			snap.System = system
		}
	}

	if p.ex.CPU != nil {
		cpuInfo, err := p.ex.CPU()
		if err != nil {
			failures = append(failures, CategoryError{Category: "cpu", Err: err})
		} else {
			snap.CPU = cpuInfo
		}
	}

	if p.ex.Memory != nil {
		memInfo, err := p.ex.Memory()
		if err != nil {
			failures = append(failures, CategoryError{Category: "memory", Err: err})
		} else {
			snap.Memory = memInfo
		}
	}

	if include.Disk && p.ex.Disk != nil {
		diskInfo, err := p.ex.Disk()
		if err != nil {
			failures = append(failures, CategoryError{Category: "disk", Err: err})
		} else {
			snap.Disk = diskInfo
		}
	}

	if include.Processes && p.ex.Processes != nil {
		procInfo, err := p.ex.Processes()
		if err != nil {
			failures = append(failures, CategoryError{Category: "processes", Err: err})
		} else {
			snap.Processes = procInfo
		}
	}

	return snap, failures
}
