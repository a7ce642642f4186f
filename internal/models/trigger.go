package models

import "time"

// TriggerEvent wraps the snapshot that tripped a threshold.
// It carries no status field: its presence on the stream is the signal.
type TriggerEvent struct {
	Data          *Snapshot `json:"data"`
	DateTriggered time.Time `json:"date_triggered"`
}

// Result is the success envelope for a single-shot extraction
type Result struct {
	Status string    `json:"status"`
	Data   *Snapshot `json:"data"`
}

// ErrorResult is the failure envelope written before a non-zero exit
type ErrorResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
