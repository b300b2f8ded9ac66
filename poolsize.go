package officepool

import (
	"runtime"
	"strconv"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps office instances to limit memory (~300MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for office helper processes.
	cpuDivisor = 2
)

// ResolvePoolSize determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs that expand a base port.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}

// ExpandPorts returns n consecutive ports starting at first.
func ExpandPorts(first, n int) []int {
	ports := make([]int, n)
	for i := range ports {
		ports[i] = first + i
	}
	return ports
}

// ExpandPipeNames returns n pipe names derived from base: base itself when
// n is 1, otherwise base_0 .. base_{n-1}.
func ExpandPipeNames(base string, n int) []string {
	if n == 1 {
		return []string{base}
	}
	names := make([]string, n)
	for i := range names {
		names[i] = base + "_" + strconv.Itoa(i)
	}
	return names
}
