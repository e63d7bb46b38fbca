package constants

import "time"

// Test Constants
//
// IMPORTANT: These constants are for testing only. DO NOT use in production code.

// Integration Test Timeout Constants
const (
	// TestContainerStartupTimeout bounds PostgreSQL container startup in integration tests
	TestContainerStartupTimeout = 60 * time.Second

	// TestContextTimeout is the default deadline of test contexts
	TestContextTimeout = 10 * time.Second
)

// Concurrency Test Constants
const (
	// TestConcurrentDerivations is the number of goroutines deriving keys at once
	TestConcurrentDerivations = 16

	// TestScanWorkers is the scanner worker limit used in tests
	TestScanWorkers = 4
)

// Test Archive Constants
const (
	// TestEntryCount is the number of entries in generated test archives
	TestEntryCount = 8

	// TestEntryMaxSize is the upper bound of generated entry payloads
	TestEntryMaxSize = 4096
)
