package models

// MemoryInfo groups virtual and swap memory usage
type MemoryInfo struct {
	Virtual VirtualMemory `json:"virtual_memory"`
	Swap    SwapMemory    `json:"swap_memory"`
}

// VirtualMemory represents physical memory usage in bytes
type VirtualMemory struct {
	Total     uint64  `json:"total"`
	Free      uint64  `json:"free"`
	Available uint64  `json:"available"`
	Buffers   uint64  `json:"buffers"`
	Cached    uint64  `json:"cached"`
	Used      uint64  `json:"used"`
	Percent   float64 `json:"percent"`
}

// SwapMemory represents swap usage in bytes
type SwapMemory struct {
	Total   uint64  `json:"total"`
	Free    uint64  `json:"free"`
	Used    uint64  `json:"used"`
	Percent float64 `json:"percent"`
}
