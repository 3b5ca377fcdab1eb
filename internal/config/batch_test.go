package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/fanbatch/internal/errors"
	"github.com/agbru/fanbatch/internal/outcome"
)

const sampleBatch = `
workers:
  - name: fetch
    label: Fetch
    delay: 20ms
    payload: sum-squares
    limit: 100
  - name: parse
    delay: 5ms
    payload: xor-sum
    limit: 64
    mask: 3
    fail: true
`

func TestParseBatch(t *testing.T) {
	b, err := ParseBatch([]byte(sampleBatch))
	require.NoError(t, err)
	require.Len(t, b.Workers, 2)
	assert.Equal(t, "fetch", b.Workers[0].Name)
	assert.Equal(t, 20*time.Millisecond, b.Workers[0].Delay)
	assert.Equal(t, 3, b.Workers[1].Mask)
	assert.True(t, b.Workers[1].Fail)
	assert.Equal(t, []string{"fetch", "parse"}, b.Names())
}

func TestParseBatch_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"empty", "workers: []", "workers"},
		{"missing name", "workers:\n  - payload: sum-squares\n", "workers[0].name"},
		{"duplicate", "workers:\n  - {name: a, payload: sum-squares}\n  - {name: a, payload: sum-triples}\n", "workers[1].name"},
		{"unknown payload", "workers:\n  - {name: a, payload: cube}\n", "workers[0].payload"},
		{"negative delay", "workers:\n  - {name: a, payload: sum-squares, delay: -1s}\n", "workers[0].delay"},
		{"negative limit", "workers:\n  - {name: a, payload: sum-squares, limit: -4}\n", "workers[0].limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBatch([]byte(tt.data))
			var verr apperrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestParseBatch_UnknownField(t *testing.T) {
	_, err := ParseBatch([]byte("workers:\n  - {name: a, payload: sum-squares, retries: 3}\n"))
	var cfgErr apperrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLoadBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleBatch), 0o600))

	cfg := Default()
	cfg.BatchFile = path
	b, err := cfg.ResolveBatch()
	require.NoError(t, err)
	assert.Len(t, b.Workers, 2)

	cfg.BatchFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = cfg.ResolveBatch()
	assert.Equal(t, apperrors.ExitErrorConfig, apperrors.ExitCodeFor(err))
}

func TestResolveBatch_Reference(t *testing.T) {
	b, err := Default().ResolveBatch()
	require.NoError(t, err)
	assert.Equal(t, []string{"one-thread", "two-thread", "three-thread"}, b.Names())
	require.NoError(t, b.Validate())
}

type capture struct{ got []outcome.Outcome }

func (c *capture) Send(_ context.Context, o outcome.Outcome) error {
	c.got = append(c.got, o)
	return nil
}

func TestBatchTasks_FailInjection(t *testing.T) {
	tasks, err := ReferenceBatch().Tasks([]string{"two-thread"})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "Task 2", tasks[1].Label())

	sink := &capture{}
	tasks[1].Run(context.Background(), sink, outcome.WorkerID{Index: 1, Name: "two-thread"})
	require.Len(t, sink.got, 1)
	assert.Equal(t, outcome.StatusError, sink.got[0].Status)
	assert.Equal(t, InjectedFaultKind, sink.got[0].FaultKind)
	assert.Equal(t, "Task 2 failed: InjectedFault: forced failure", sink.got[0].Message)
}

func TestBatchTasks_FailFieldAndValues(t *testing.T) {
	b, err := ParseBatch([]byte(sampleBatch))
	require.NoError(t, err)
	tasks, err := b.Tasks(nil)
	require.NoError(t, err)

	sink := &capture{}
	for i, task := range tasks {
		task.Run(context.Background(), sink, outcome.WorkerID{Index: i, Name: task.Name()})
	}
	require.Len(t, sink.got, 2)
	assert.Equal(t, int64(328350), sink.got[0].Value)
	assert.Equal(t, "Fetch completed (work=328350)", sink.got[0].Message)
	assert.Equal(t, outcome.StatusError, sink.got[1].Status)
}

func TestBatchTasks_UnknownFailName(t *testing.T) {
	_, err := ReferenceBatch().Tasks([]string{"four-thread"})
	var verr apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "fail", verr.Field)
}
