// Package outcome defines the record each worker reports at the end of its
// unit of work and the shared channel those records travel through.
//
// An Outcome is a fixed-schema value: a Status, the identity of the worker
// that produced it, a completion timestamp and a human-readable message. The
// Channel is the only state shared between workers and the coordinator. It
// carries its own synchronization, so producers and the consumer never take
// external locks.
package outcome
