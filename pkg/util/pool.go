package util

import "runtime"

const (
	minPoolSize = 4
	maxPoolSize = 32
)

// GetOptimalPoolSize returns min(max(2*NumCPU, 4), 32).
//
// Parser pools and the batch worker pool are sized with the same value so a
// worker never waits on a parser.
func GetOptimalPoolSize() int {
	size := runtime.NumCPU() * 2
	if size < minPoolSize {
		size = minPoolSize
	}
	if size > maxPoolSize {
		size = maxPoolSize
	}
	return size
}

// GetOptimalPoolSizeWithOverride returns override when positive, otherwise
// GetOptimalPoolSize.
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
