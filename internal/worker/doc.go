// Package worker implements the one-shot unit of concurrent work launched by
// the coordinator. A Task simulates latency with a cancellable delay, runs a
// bounded computation, and always reports exactly one outcome before it
// returns.
package worker
