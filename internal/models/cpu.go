package models

// CPUInfo represents CPU count and usage information
type CPUInfo struct {
	Count   int       `json:"cpu_count"`
	Percent float64   `json:"cpu_percent"`
	PerCore []float64 `json:"per_core,omitempty"`
}
