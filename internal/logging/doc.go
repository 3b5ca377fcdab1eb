// Package logging provides a unified logging interface for the batch runner.
// It abstracts the underlying logging implementation (zerolog, zap or the
// standard library), allowing consistent structured logging across components.
package logging
