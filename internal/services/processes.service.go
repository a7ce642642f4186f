package services

import (
	"sort"

	"machmon/internal/models"

	"github.com/shirou/gopsutil/v3/process"
)

// maxReportedProcesses caps the process list at the heaviest consumers
const maxReportedProcesses = 50

// ExtractProcesses returns the process count and the heaviest processes.
// Pipeline: Collect → Sort → Limit
func ExtractProcesses() (*models.ProcessInfo, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	// COLLECT: per-process failures just skip that process
	entries := make([]models.ProcessEntry, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}

		entry := models.ProcessEntry{
			PID:     p.Pid,
			Command: name,
		}

		if user, err := p.Username(); err == nil {
			entry.User = user
		}
		if cpuPercent, err := p.CPUPercent(); err == nil {
			entry.CPUPercent = cpuPercent
		}
		if memPercent, err := p.MemoryPercent(); err == nil {
			entry.MemoryPercent = memPercent
		}
		if memInfo, err := p.MemoryInfo(); err == nil && memInfo != nil {
			entry.RSS = memInfo.RSS
			entry.VMS = memInfo.VMS
		}
		if status, err := p.Status(); err == nil && len(status) > 0 {
			entry.Status = status[0]
		} else {
			entry.Status = "unknown"
		}

		entries = append(entries, entry)
	}

	// SORT: by CPU usage descending
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CPUPercent > entries[j].CPUPercent
	})

	// LIMIT: heaviest consumers only
	limited := entries
	if len(limited) > maxReportedProcesses {
		limited = limited[:maxReportedProcesses]
	}

	return &models.ProcessInfo{
		ProcessCount: len(entries),
		Processes:    limited,
	}, nil
}
