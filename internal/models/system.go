package models

import "time"

// SystemInfo describes the host itself
type SystemInfo struct {
	Hostname      string    `json:"hostname"`
	Platform      string    `json:"platform"`
	System        string    `json:"system"`
	Release       string    `json:"release"`
	Version       string    `json:"version"`
	Machine       string    `json:"machine"`
	UptimeSeconds uint64    `json:"uptime_seconds"`
	BootTime      time.Time `json:"boot_time"`
}
