// Package monitor implements the threshold evaluator and the sampling loop.
package monitor

import "machmon/internal/models"

// Thresholds are the validated trigger percentages. A value of 0 disables
// monitoring of that metric.
type Thresholds struct {
	CPUPercent int
	MemPercent int
}

// Reason identifies which threshold tripped
type Reason string

const (
	ReasonCPUHigh    Reason = "cpu_high"
	ReasonMemoryHigh Reason = "memory_high"
)

// Evaluate decides whether a snapshot trips a configured threshold.
// Comparisons are strict: a reading exactly at the threshold does not fire.
// CPU is checked before memory and determines the reported reason; either
// condition alone is sufficient. Missing CPU or memory data never fires.
// Pure function, no side effects.
func Evaluate(snap *models.Snapshot, t Thresholds) (Reason, bool) {
	if snap == nil {
		return "", false
	}

	if t.CPUPercent > 0 && snap.CPU != nil && snap.CPU.Percent > float64(t.CPUPercent) {
		return ReasonCPUHigh, true
	}

	if t.MemPercent > 0 && snap.Memory != nil && snap.Memory.Virtual.Percent > float64(t.MemPercent) {
		return ReasonMemoryHigh, true
	}

	return "", false
}
