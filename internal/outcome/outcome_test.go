package outcome

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestStatusNames(t *testing.T) {
	t.Parallel()
	tests := []struct {
		status Status
		str    string
		label  string
		valid  bool
	}{
		{StatusSuccess, "success", "SUCCESS", true},
		{StatusError, "error", "ERROR", true},
		{Status(0), "unknown", "UNKNOWN", false},
		{Status(9), "unknown", "UNKNOWN", false},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.str {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.str)
		}
		if got := tt.status.Label(); got != tt.label {
			t.Errorf("Status(%d).Label() = %q, want %q", tt.status, got, tt.label)
		}
		if got := tt.status.Valid(); got != tt.valid {
			t.Errorf("Status(%d).Valid() = %v, want %v", tt.status, got, tt.valid)
		}
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"success", "SUCCESS"} {
		if s, err := ParseStatus(name); err != nil || s != StatusSuccess {
			t.Errorf("ParseStatus(%q) = %v, %v", name, s, err)
		}
	}
	if _, err := ParseStatus("maybe"); err == nil {
		t.Error("ParseStatus should reject unknown names")
	}
}

func TestWorkerIDString(t *testing.T) {
	t.Parallel()
	if got := (WorkerID{Index: 2, Name: "three-thread"}).String(); got != "three-thread" {
		t.Errorf("named id String() = %q", got)
	}
	if got := (WorkerID{Index: 4}).String(); got != "worker-4" {
		t.Errorf("anonymous id String() = %q", got)
	}
	if !(WorkerID{}).IsZero() {
		t.Error("zero WorkerID should report IsZero")
	}
}

func TestOutcomeYAML(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	in := Failure(WorkerID{Index: 1, Name: "two-thread"}, at, "panic", "Task 2 failed: panic: boom")

	data, err := yaml.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out Outcome
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Status != StatusError || out.Worker != in.Worker || out.FaultKind != "panic" || !out.Timestamp.Equal(at) {
		t.Errorf("round trip mismatch: got %+v", out)
	}
}

func TestOutcomeKey(t *testing.T) {
	t.Parallel()
	o := Success(WorkerID{Index: 0, Name: "one-thread"}, time.Now(), 1, "ok")
	if k := o.Key(); k.Worker != "one-thread" || k.Status != StatusSuccess {
		t.Errorf("Key() = %+v", k)
	}
	if !o.Succeeded() {
		t.Error("Succeeded() should be true for a success outcome")
	}
}
