package services

import (
	"log"

	"machmon/internal/models"

	"github.com/shirou/gopsutil/v3/disk"
)

// ExtractDisk returns usage for all mounted partitions plus the root filesystem
func ExtractDisk() (*models.DiskInfo, error) {
	partitions, err := disk.Partitions(false)
	if err != nil {
		return nil, err
	}

	info := &models.DiskInfo{Partitions: []models.PartitionUsage{}}

	for _, partition := range partitions {
		usage, err := disk.Usage(partition.Mountpoint)
		if err != nil {
			log.Printf("[EXTRACT] Warning: could not get disk usage for %s: %v", partition.Mountpoint, err)
			continue
		}

		info.Partitions = append(info.Partitions, models.PartitionUsage{
			Filesystem: partition.Device,
			Fstype:     partition.Fstype,
			Mountpoint: partition.Mountpoint,
			Total:      usage.Total,
			Used:       usage.Used,
			Free:       usage.Free,
			UsePercent: usage.UsedPercent,
		})
	}

	root, err := disk.Usage("/")
	if err != nil {
		log.Printf("[EXTRACT] Warning: could not get root filesystem usage: %v", err)
		return info, nil
	}
	info.RootUsage = &models.DiskUsage{
		Total:   root.Total,
		Used:    root.Used,
		Free:    root.Free,
		Percent: root.UsedPercent,
	}
	return info, nil
}
