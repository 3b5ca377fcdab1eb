package orchestration

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/agbru/fanbatch/internal/errors"
	"github.com/agbru/fanbatch/internal/outcome"
)

// Verdict is the overall classification of a run.
type Verdict uint8

const (
	// VerdictError means the collected outcome count does not match the
	// number of launched workers.
	VerdictError Verdict = iota
	// VerdictSuccess means every worker reported success.
	VerdictSuccess
	// VerdictPartial means every worker reported, and at least one failed.
	VerdictPartial
)

// String returns the verdict as printed on the console.
func (v Verdict) String() string {
	switch v {
	case VerdictSuccess:
		return "SUCCESS"
	case VerdictPartial:
		return "PARTIAL"
	default:
		return "ERROR"
	}
}

// MarshalYAML encodes the verdict as its name.
func (v Verdict) MarshalYAML() (any, error) { return v.String(), nil }

// UnmarshalYAML decodes a verdict name.
func (v *Verdict) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch strings.ToUpper(s) {
	case "SUCCESS":
		*v = VerdictSuccess
	case "PARTIAL":
		*v = VerdictPartial
	case "ERROR":
		*v = VerdictError
	default:
		return fmt.Errorf("unknown verdict %q", s)
	}
	return nil
}

// ExitCode maps the verdict to a process exit status.
func (v Verdict) ExitCode() int {
	switch v {
	case VerdictSuccess:
		return apperrors.ExitSuccess
	case VerdictPartial:
		return apperrors.ExitPartial
	default:
		return apperrors.ExitErrorIncomplete
	}
}

// Reason explains how the drain ended.
type Reason string

const (
	// ReasonComplete: exactly one outcome per worker was collected.
	ReasonComplete Reason = "complete"
	// ReasonIncomplete: the drain stopped short of one outcome per worker.
	ReasonIncomplete Reason = "incomplete"
	// ReasonRejected: the result channel refused at least one send, either
	// a second outcome from one worker or an outcome without a valid status.
	ReasonRejected Reason = "rejected"
	// ReasonSurplus: more outcomes were collected than workers were launched.
	ReasonSurplus Reason = "surplus"
)

// Summary aggregates the outcomes of one run.
type Summary struct {
	RunID     string        `yaml:"run_id"`
	Expected  int           `yaml:"expected"`
	Received  int           `yaml:"received"`
	Succeeded int           `yaml:"succeeded"`
	Failed    int           `yaml:"failed"`
	Rejected  int           `yaml:"rejected"`
	Verdict   Verdict       `yaml:"verdict"`
	Reason    Reason        `yaml:"reason"`
	Elapsed   time.Duration `yaml:"elapsed"`
}

// Summarize classifies outcomes collected from a batch of expected workers.
// rejected is the number of sends the result channel refused.
func Summarize(expected int, outcomes []outcome.Outcome, rejected int) Summary {
	s := Summary{
		Expected: expected,
		Received: len(outcomes),
		Rejected: rejected,
	}
	for _, o := range outcomes {
		if o.Succeeded() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}

	switch {
	case s.Rejected > 0:
		s.Reason = ReasonRejected
	case s.Received > s.Expected:
		s.Reason = ReasonSurplus
	case s.Received < s.Expected:
		s.Reason = ReasonIncomplete
	default:
		s.Reason = ReasonComplete
	}

	switch {
	case s.Reason != ReasonComplete:
		s.Verdict = VerdictError
	case s.Failed == 0:
		s.Verdict = VerdictSuccess
	default:
		s.Verdict = VerdictPartial
	}
	return s
}

// ExitCode maps the summary to a process exit status. Rejected sends and
// surplus outcomes are a generic error; a short drain is an incomplete error.
func (s Summary) ExitCode() int {
	if s.Verdict == VerdictError && (s.Reason == ReasonRejected || s.Reason == ReasonSurplus) {
		return apperrors.ExitErrorGeneric
	}
	return s.Verdict.ExitCode()
}

// Mismatch returns a CountMismatchError when the summary is not complete,
// nil otherwise.
func (s Summary) Mismatch() error {
	if s.Reason == ReasonComplete {
		return nil
	}
	return apperrors.CountMismatchError{Expected: s.Expected, Received: s.Received, Rejected: s.Rejected}
}

// Report is the full result of Coordinator.Run.
type Report struct {
	Summary Summary `yaml:"summary"`
	// Outcomes is an unordered set; correlate by the embedded worker identity.
	Outcomes []outcome.Outcome `yaml:"outcomes"`
	// Err is a DrainTimeoutError when the drain deadline fired, the context
	// error when the caller canceled, and nil otherwise.
	Err error `yaml:"-"`
}

// ByWorker indexes outcomes by worker name.
func (r Report) ByWorker() map[string]outcome.Outcome {
	m := make(map[string]outcome.Outcome, len(r.Outcomes))
	for _, o := range r.Outcomes {
		m[o.Worker.String()] = o
	}
	return m
}

// Keys returns the (worker, status) pair of every outcome.
func (r Report) Keys() []outcome.Key {
	keys := make([]outcome.Key, len(r.Outcomes))
	for i, o := range r.Outcomes {
		keys[i] = o.Key()
	}
	return keys
}

// ExitCode combines the summary verdict with the run error. A canceled run
// exits with ExitErrorCanceled, whatever was collected.
func (r Report) ExitCode() int {
	if r.Err != nil && apperrors.ExitCodeFor(r.Err) == apperrors.ExitErrorCanceled {
		return apperrors.ExitErrorCanceled
	}
	return r.Summary.ExitCode()
}
