package services

import (
	"errors"
	"testing"

	"machmon/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubExtractors() Extractors {
	return Extractors{
		System: func() (*models.SystemInfo, error) {
			return &models.SystemInfo{Hostname: "test-host"}, nil
		},
		CPU: func() (*models.CPUInfo, error) {
			return &models.CPUInfo{Count: 8, Percent: 42.5}, nil
		},
		Memory: func() (*models.MemoryInfo, error) {
			return &models.MemoryInfo{Virtual: models.VirtualMemory{Percent: 61.0}}, nil
		},
		Disk: func() (*models.DiskInfo, error) {
			return &models.DiskInfo{}, nil
		},
		Processes: func() (*models.ProcessInfo, error) {
			return &models.ProcessInfo{ProcessCount: 3}, nil
		},
	}
}

func TestProduceAlwaysIncludesSystemCPUMemory(t *testing.T) {
	producer := NewProducer(stubExtractors())

	snap, failures := producer.Produce(Categories{})
	assert.Empty(t, failures)
	assert.False(t, snap.Timestamp.IsZero())
	assert.NotNil(t, snap.System)
	assert.NotNil(t, snap.CPU)
	assert.NotNil(t, snap.Memory)
	assert.Nil(t, snap.Disk)
	assert.Nil(t, snap.Processes)
}

func TestProduceHonorsEnabledCategories(t *testing.T) {
	producer := NewProducer(stubExtractors())

	snap, failures := producer.Produce(Categories{Disk: true, Processes: true})
	assert.Empty(t, failures)
	assert.NotNil(t, snap.Disk)
	assert.NotNil(t, snap.Processes)
}

func TestProduceIsolatesCategoryFailures(t *testing.T) {
	ex := stubExtractors()
	ex.Disk = func() (*models.DiskInfo, error) {
		return nil, errors.New("statfs failed")
	}
	producer := NewProducer(ex)

	snap, failures := producer.Produce(Categories{Disk: true, Processes: true})

	require.Len(t, failures, 1)
	assert.Equal(t, "disk", failures[0].Category)
	assert.Contains(t, failures[0].Error(), "statfs failed")

	assert.Nil(t, snap.Disk, "failed category is omitted")
	assert.NotNil(t, snap.CPU, "other categories are unaffected")
	assert.NotNil(t, snap.Memory)
	assert.NotNil(t, snap.Processes)
}

func TestProduceSkipsDisabledCategoriesEvenIfTheyWouldFail(t *testing.T) {
	ex := stubExtractors()
	called := false
	ex.Disk = func() (*models.DiskInfo, error) {
		called = true
		return nil, errors.New("should not run")
	}
	producer := NewProducer(ex)

	_, failures := producer.Produce(Categories{})
	assert.Empty(t, failures)
	assert.False(t, called)
}
