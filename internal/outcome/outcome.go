package outcome

import (
	"fmt"
	"strconv"
	"time"
)

// Status classifies an Outcome. The zero value is invalid and is rejected by
// every Sink, so a worker that forgets to set it is caught at the channel
// boundary rather than counted as either result.
type Status uint8

const (
	// StatusSuccess marks a worker whose computation completed normally.
	StatusSuccess Status = iota + 1
	// StatusError marks a worker whose computation faulted. The fault is
	// carried as data in the Outcome message, never as a propagated error.
	StatusError
)

// String returns the lower-case name of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Label returns the upper-case form used in console output.
func (s Status) Label() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether s is one of the declared statuses.
func (s Status) Valid() bool {
	return s == StatusSuccess || s == StatusError
}

// MarshalYAML encodes the status as its lower-case name.
func (s Status) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML decodes a lower-case status name.
func (s *Status) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus converts a status name back into a Status.
func ParseStatus(name string) (Status, error) {
	switch name {
	case "success", "SUCCESS":
		return StatusSuccess, nil
	case "error", "ERROR":
		return StatusError, nil
	}
	return 0, fmt.Errorf("unknown outcome status %q", name)
}

// WorkerID identifies the worker that produced an Outcome. The coordinator
// assigns it at spawn time and hands it to the worker explicitly.
type WorkerID struct {
	// Index is the position of the worker in the launched batch.
	Index int `yaml:"index"`
	// Name is the human-readable worker name (e.g. "one-thread").
	Name string `yaml:"name"`
}

// String returns the worker name, falling back to an index-derived name.
func (id WorkerID) String() string {
	if id.Name != "" {
		return id.Name
	}
	return "worker-" + strconv.Itoa(id.Index)
}

// IsZero reports whether no identity has been assigned.
func (id WorkerID) IsZero() bool {
	return id == WorkerID{}
}

// Outcome is the single result a worker reports for its unit of work.
// It is passed by value and never mutated after it is sent.
type Outcome struct {
	// Status is the result classification.
	Status Status `yaml:"status"`
	// Worker identifies the producing worker.
	Worker WorkerID `yaml:"worker"`
	// Timestamp is the moment the worker finished.
	Timestamp time.Time `yaml:"timestamp"`
	// Message summarizes the computed payload or the fault.
	Message string `yaml:"message"`
	// Value is the computed payload. It is only meaningful on success.
	Value int64 `yaml:"value,omitempty"`
	// FaultKind names the class of fault on error (e.g. "panic").
	FaultKind string `yaml:"fault_kind,omitempty"`
	// Elapsed is how long the worker ran, delay included.
	Elapsed time.Duration `yaml:"elapsed"`
}

// Success builds a Success outcome.
func Success(id WorkerID, at time.Time, value int64, message string) Outcome {
	return Outcome{Status: StatusSuccess, Worker: id, Timestamp: at, Value: value, Message: message}
}

// Failure builds an Error outcome.
func Failure(id WorkerID, at time.Time, kind, message string) Outcome {
	return Outcome{Status: StatusError, Worker: id, Timestamp: at, FaultKind: kind, Message: message}
}

// Succeeded reports whether the outcome carries StatusSuccess.
func (o Outcome) Succeeded() bool { return o.Status == StatusSuccess }

// Key is the identity-and-status pair used to compare batches as sets.
type Key struct {
	Worker string
	Status Status
}

// Key returns the set key of the outcome.
func (o Outcome) Key() Key {
	return Key{Worker: o.Worker.String(), Status: o.Status}
}
