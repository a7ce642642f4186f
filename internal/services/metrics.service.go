package services

import (
	"log"
	"time"

	"machmon/internal/models"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// ExtractCPU returns CPU count and usage percentage
func ExtractCPU() (*models.CPUInfo, error) {
	percent, err := cpu.Percent(0, false)
	if err != nil {
		return nil, err
	}

	perCore, err := cpu.Percent(0, true)
	if err != nil {
		log.Printf("[EXTRACT] Warning: could not get per-core CPU usage: %v", err)
		perCore = nil
	}

	count, err := cpu.Counts(true)
	if err != nil {
		log.Printf("[EXTRACT] Warning: could not get CPU count: %v", err)
		count = 0
	}

	info := &models.CPUInfo{
		Count:   count,
		PerCore: perCore,
	}
	if len(percent) > 0 {
		info.Percent = percent[0]
	}
	return info, nil
}

// ExtractMemory returns virtual and swap memory usage
func ExtractMemory() (*models.MemoryInfo, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}

	info := &models.MemoryInfo{
		Virtual: models.VirtualMemory{
			Total:     vm.Total,
			Free:      vm.Free,
			Available: vm.Available,
			Buffers:   vm.Buffers,
			Cached:    vm.Cached,
			Used:      vm.Used,
			Percent:   vm.UsedPercent,
		},
	}

	swap, err := mem.SwapMemory()
	if err != nil {
		log.Printf("[EXTRACT] Warning: could not get swap usage: %v", err)
		return info, nil
	}
	info.Swap = models.SwapMemory{
		Total:   swap.Total,
		Free:    swap.Free,
		Used:    swap.Used,
		Percent: swap.UsedPercent,
	}
	return info, nil
}

// ExtractSystem returns general host information
func ExtractSystem() (*models.SystemInfo, error) {
	info, err := host.Info()
	if err != nil {
		return nil, err
	}

	return &models.SystemInfo{
		Hostname:      info.Hostname,
		Platform:      info.Platform + " " + info.PlatformVersion,
		System:        info.OS,
		Release:       info.KernelVersion,
		Version:       info.PlatformVersion,
		Machine:       info.KernelArch,
		UptimeSeconds: info.Uptime,
		BootTime:      time.Unix(int64(info.BootTime), 0).UTC(),
	}, nil
}
