package monitor

import (
	"testing"
	"time"

	"machmon/internal/models"

	"github.com/stretchr/testify/assert"
)

func snapshotWith(cpuPercent, memPercent float64) *models.Snapshot {
	return &models.Snapshot{
		Timestamp: time.Now(),
		CPU:       &models.CPUInfo{Count: 4, Percent: cpuPercent},
		Memory: &models.MemoryInfo{
			Virtual: models.VirtualMemory{Percent: memPercent},
		},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		snap       *models.Snapshot
		thresholds Thresholds
		wantReason Reason
		wantFired  bool
	}{
		{
			name:       "both thresholds zero never fires",
			snap:       snapshotWith(99.9, 99.9),
			thresholds: Thresholds{CPUPercent: 0, MemPercent: 0},
		},
		{
			name:       "below both thresholds",
			snap:       snapshotWith(31.2, 53.3),
			thresholds: Thresholds{CPUPercent: 50, MemPercent: 70},
		},
		{
			name:       "cpu above threshold fires",
			snap:       snapshotWith(85.2, 10),
			thresholds: Thresholds{CPUPercent: 80, MemPercent: 85},
			wantReason: ReasonCPUHigh,
			wantFired:  true,
		},
		{
			name:       "memory above threshold fires",
			snap:       snapshotWith(10, 90),
			thresholds: Thresholds{CPUPercent: 80, MemPercent: 85},
			wantReason: ReasonMemoryHigh,
			wantFired:  true,
		},
		{
			name:       "exactly at threshold does not fire",
			snap:       snapshotWith(80, 85),
			thresholds: Thresholds{CPUPercent: 80, MemPercent: 85},
		},
		{
			name:       "both exceeded reports cpu first",
			snap:       snapshotWith(95, 95),
			thresholds: Thresholds{CPUPercent: 80, MemPercent: 85},
			wantReason: ReasonCPUHigh,
			wantFired:  true,
		},
		{
			name:       "cpu disabled but memory enabled",
			snap:       snapshotWith(95, 95),
			thresholds: Thresholds{CPUPercent: 0, MemPercent: 85},
			wantReason: ReasonMemoryHigh,
			wantFired:  true,
		},
		{
			name: "missing cpu data never fires cpu",
			snap: &models.Snapshot{
				Timestamp: time.Now(),
				Memory:    &models.MemoryInfo{Virtual: models.VirtualMemory{Percent: 10}},
			},
			thresholds: Thresholds{CPUPercent: 1, MemPercent: 0},
		},
		{
			name: "missing memory data never fires memory",
			snap: &models.Snapshot{
				Timestamp: time.Now(),
				CPU:       &models.CPUInfo{Percent: 10},
			},
			thresholds: Thresholds{CPUPercent: 0, MemPercent: 1},
		},
		{
			name:       "nil snapshot never fires",
			snap:       nil,
			thresholds: Thresholds{CPUPercent: 1, MemPercent: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, fired := Evaluate(tt.snap, tt.thresholds)
			assert.Equal(t, tt.wantFired, fired)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	snap := snapshotWith(85.2, 53.3)
	before := *snap.CPU

	Evaluate(snap, Thresholds{CPUPercent: 80, MemPercent: 70})
	Evaluate(snap, Thresholds{CPUPercent: 80, MemPercent: 70})

	assert.Equal(t, before, *snap.CPU)
}
