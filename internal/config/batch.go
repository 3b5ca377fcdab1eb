package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/fanbatch/internal/errors"
	"github.com/agbru/fanbatch/internal/worker"
)

// InjectedFaultKind is the fault kind of failures forced with --fail or the
// batch file's fail field.
const InjectedFaultKind = "InjectedFault"

// WorkerSpec describes one worker of a batch.
type WorkerSpec struct {
	Name    string        `yaml:"name"`
	Label   string        `yaml:"label,omitempty"`
	Delay   time.Duration `yaml:"delay"`
	Payload string        `yaml:"payload"`
	Limit   int           `yaml:"limit"`
	Mask    int           `yaml:"mask,omitempty"`
	// Fail forces the computation to fail after doing its work.
	Fail bool `yaml:"fail,omitempty"`
}

// Batch is a fixed set of workers run together. The worker count is fixed
// by the batch.
type Batch struct {
	Workers []WorkerSpec `yaml:"workers"`
}

// ReferenceBatch returns the built-in three-worker batch.
func ReferenceBatch() Batch {
	return Batch{Workers: []WorkerSpec{
		{Name: "one-thread", Label: "Task 1", Delay: 100 * time.Millisecond, Payload: worker.PayloadSumSquares, Limit: 2000},
		{Name: "two-thread", Label: "Task 2", Delay: 150 * time.Millisecond, Payload: worker.PayloadSumTriples, Limit: 3000},
		{Name: "three-thread", Label: "Task 3", Delay: 50 * time.Millisecond, Payload: worker.PayloadXorSum, Limit: 2500, Mask: 7},
	}}
}

// ParseBatch decodes a YAML batch definition. Unknown fields are rejected.
func ParseBatch(data []byte) (Batch, error) {
	var b Batch
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return Batch{}, apperrors.NewConfigError("invalid batch definition: %v", err)
	}
	if err := b.Validate(); err != nil {
		return Batch{}, err
	}
	return b, nil
}

// LoadBatch reads and decodes the batch file at path.
func LoadBatch(path string) (Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Batch{}, apperrors.NewConfigError("cannot read batch file: %v", err)
	}
	b, err := ParseBatch(data)
	if err != nil {
		return Batch{}, apperrors.WrapError(err, "batch file %s", path)
	}
	return b, nil
}

// ResolveBatch returns the configured batch file, or the reference batch
// when none is set.
func (c AppConfig) ResolveBatch() (Batch, error) {
	if c.BatchFile == "" {
		return ReferenceBatch(), nil
	}
	return LoadBatch(c.BatchFile)
}

// Validate checks the batch for semantic errors.
func (b Batch) Validate() error {
	if len(b.Workers) == 0 {
		return apperrors.ValidationError{Field: "workers", Message: "a batch needs at least one worker"}
	}
	seen := make(map[string]bool, len(b.Workers))
	for i, w := range b.Workers {
		field := fmt.Sprintf("workers[%d]", i)
		name := strings.TrimSpace(w.Name)
		switch {
		case name == "":
			return apperrors.ValidationError{Field: field + ".name", Message: "must not be empty"}
		case seen[name]:
			return apperrors.ValidationError{Field: field + ".name", Message: fmt.Sprintf("duplicate worker name %q", name)}
		case w.Delay < 0:
			return apperrors.ValidationError{Field: field + ".delay", Message: "must not be negative"}
		case w.Limit < 0:
			return apperrors.ValidationError{Field: field + ".limit", Message: "must not be negative"}
		}
		if _, err := worker.LookupPayload(w.Payload, w.Limit, w.Mask); err != nil {
			return apperrors.ValidationError{Field: field + ".payload", Message: err.Error()}
		}
		seen[name] = true
	}
	return nil
}

// Names returns the worker names in batch order.
func (b Batch) Names() []string {
	names := make([]string, len(b.Workers))
	for i, w := range b.Workers {
		names[i] = w.Name
	}
	return names
}

// Tasks builds the batch's worker tasks. Workers named in fail, or marked
// fail in the batch, have their computation forced to fail. An unknown
// name in fail is a validation error.
func (b Batch) Tasks(fail []string, opts ...worker.Option) ([]*worker.Task, error) {
	forced := make(map[string]bool, len(fail))
	for _, name := range fail {
		forced[strings.TrimSpace(name)] = true
	}
	for name := range forced {
		if !contains(b.Names(), name) {
			return nil, apperrors.ValidationError{Field: "fail", Message: fmt.Sprintf("unknown worker %q (batch has %s)", name, strings.Join(b.Names(), ", "))}
		}
	}

	tasks := make([]*worker.Task, len(b.Workers))
	for i, w := range b.Workers {
		compute, err := worker.LookupPayload(w.Payload, w.Limit, w.Mask)
		if err != nil {
			return nil, apperrors.ValidationError{Field: fmt.Sprintf("workers[%d].payload", i), Message: err.Error()}
		}
		if w.Fail || forced[w.Name] {
			compute = worker.FailAfter(compute, apperrors.WorkerFault{
				Worker: w.Name,
				Kind:   InjectedFaultKind,
				Cause:  errors.New("forced failure"),
			})
		}
		taskOpts := opts
		if w.Label != "" {
			taskOpts = append([]worker.Option{worker.WithLabel(w.Label)}, opts...)
		}
		tasks[i] = worker.NewTask(w.Name, w.Delay, compute, taskOpts...)
	}
	return tasks, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
