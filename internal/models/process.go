package models

// ProcessInfo holds the process count and the heaviest processes
type ProcessInfo struct {
	ProcessCount int            `json:"process_count"`
	Processes    []ProcessEntry `json:"processes"`
}

// ProcessEntry represents a single process, ps-style
type ProcessEntry struct {
	PID           int32   `json:"pid"`
	User          string  `json:"user"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float32 `json:"memory_percent"`
	RSS           uint64  `json:"rss"`
	VMS           uint64  `json:"vsz"`
	Status        string  `json:"status"`
	Command       string  `json:"command"`
}
