// Package operation implements the asynchronous operation orchestrator:
// a registry of tracked background operations that callers poll for
// progress, a launcher that runs task functions on worker goroutines, a
// cooperative cancellation token, and a bounded bulk runner with per-item
// failure isolation.
package operation
