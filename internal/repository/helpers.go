package repository

import (
	"time"
)

// timeLayout is the RFC3339 format for storing times in SQLite
const timeLayout = time.RFC3339

// formatTime returns the current time formatted as RFC3339
func formatTime() string {
	return time.Now().Format(timeLayout)
}

// blobSize is the quota cost of one stored entry
func blobSize(key string, value []byte) int64 {
	return int64(len(key) + len(value))
}
