// Package orchestration coordinates a fixed batch of concurrent workers and
// collects exactly one outcome from each. It decouples the run from
// presentation via the Observer interface, and from metrics via Recorder.
package orchestration
