package models

import "time"

// Snapshot is a single point-in-time capture of host metrics.
// System, CPU and memory are always present; disk and process data are
// only populated when the corresponding category is enabled.
type Snapshot struct {
	Timestamp time.Time    `json:"timestamp"`
	System    *SystemInfo  `json:"system"`
	CPU       *CPUInfo     `json:"cpu"`
	Memory    *MemoryInfo  `json:"memory"`
	Disk      *DiskInfo    `json:"disk,omitempty"`
	Processes *ProcessInfo `json:"processes,omitempty"`
}
