package models

// DiskInfo holds per-partition usage plus the root filesystem summary
type DiskInfo struct {
	Partitions []PartitionUsage `json:"partitions"`
	RootUsage  *DiskUsage       `json:"root_usage,omitempty"`
}

// PartitionUsage represents usage of a single mounted partition
type PartitionUsage struct {
	Filesystem string  `json:"filesystem"`
	Fstype     string  `json:"fstype"`
	Mountpoint string  `json:"mountpoint"`
	Total      uint64  `json:"total"`
	Used       uint64  `json:"used"`
	Free       uint64  `json:"free"`
	UsePercent float64 `json:"use_percent"`
}

// DiskUsage represents usage of a single filesystem path
type DiskUsage struct {
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Free    uint64  `json:"free"`
	Percent float64 `json:"percent"`
}
