package report

import "time"

// Status is the phase of a named report's background aggregation.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// State is the observable snapshot of one report job. Progress is
// non-decreasing within a single processing run.
type State struct {
	Status           Status     `json:"status"`
	Progress         int        `json:"progress"`
	StartTime        *time.Time `json:"startTime,omitempty"`
	EndTime          *time.Time `json:"endTime,omitempty"`
	Duration         string     `json:"duration,omitempty"`
	Error            string     `json:"error,omitempty"`
	RecordsProcessed int        `json:"recordsProcessed"`
	TotalRecords     int        `json:"totalRecords,omitempty"`
}

// MemoryUsage is a point-in-time snapshot of the Go heap.
type MemoryUsage struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"totalAlloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"numGC"`
}

// Metrics summarizes one completed report run.
type Metrics struct {
	TotalExecutionTime      float64     `json:"totalExecutionTime"`
	RecordsProcessed        int         `json:"recordsProcessed"`
	FilesProcessed          int         `json:"filesProcessed"`
	MemoryUsage             MemoryUsage `json:"memoryUsage"`
	AverageRecordsPerSecond int         `json:"averageRecordsPerSecond"`
}
