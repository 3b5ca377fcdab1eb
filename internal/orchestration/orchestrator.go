package orchestration

import (
	"context"
	"errors"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/fanbatch/internal/errors"
	"github.com/agbru/fanbatch/internal/logging"
	"github.com/agbru/fanbatch/internal/outcome"
)

// DefaultDrainTimeout bounds the drain unless WithDrainTimeout overrides it.
const DefaultDrainTimeout = 10 * time.Second

const tracerName = "github.com/agbru/fanbatch/internal/orchestration"

// ErrAlreadyRun is reported when Run is called more than once on the same
// Coordinator.
var ErrAlreadyRun = errors.New("coordinator has already run a batch")

// Coordinator launches a fixed batch of workers, joins them, and drains
// exactly one outcome per worker. A Coordinator runs a single batch.
type Coordinator struct {
	runID        string
	drainTimeout time.Duration
	capacity     int
	observer     Observer
	logger       logging.Logger
	recorder     Recorder
	now          func() time.Time
	tracer       trace.Tracer
	life         *lifecycle
	started      atomic.Bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDrainTimeout bounds the whole drain by d. Zero disables the bound:
// the drain then blocks until every outcome arrives or ctx ends.
func WithDrainTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.drainTimeout = d }
}

// WithChannelCapacity sets the result channel buffer size. The coordinator
// joins every worker before it drains, so a capacity below the batch size is
// raised to the batch size.
func WithChannelCapacity(n int) Option {
	return func(c *Coordinator) { c.capacity = n }
}

// WithObserver sets the lifecycle observer.
func WithObserver(o Observer) Option {
	return func(c *Coordinator) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithClock replaces time.Now for elapsed-time measurements.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithRunID sets the run identifier instead of a random UUID.
func WithRunID(id string) Option {
	return func(c *Coordinator) { c.runID = id }
}

// WithTracerProvider sets the tracer provider used for run and worker spans.
// The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Coordinator) { c.tracer = tp.Tracer(tracerName) }
}

// New creates a Coordinator in the idle state.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		drainTimeout: DefaultDrainTimeout,
		observer:     NullObserver{},
		logger:       logging.NopLogger{},
		recorder:     NullRecorder{},
		now:          time.Now,
		tracer:       otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.runID == "" {
		c.runID = uuid.NewString()
	}
	c.life = newLifecycle(c.stateChanged)
	return c
}

// RunID returns the identifier of this coordinator's run.
func (c *Coordinator) RunID() string { return c.runID }

// State returns the current lifecycle state. Safe for concurrent use.
func (c *Coordinator) State() State { return c.life.Current() }

// Run executes workers as one batch and returns the collected report.
//
// All workers are launched concurrently, then joined. Only after the join
// does the coordinator drain the result channel, receiving exactly
// len(workers) outcomes. Worker faults arrive as Error outcomes and never
// make Run fail. Report.Err is set when the drain stopped short: a
// DrainTimeoutError if the drain deadline expired, or the context error if
// ctx ended.
func (c *Coordinator) Run(ctx context.Context, workers []Worker) Report {
	if !c.started.CompareAndSwap(false, true) {
		return Report{Summary: Summary{RunID: c.runID}, Err: ErrAlreadyRun}
	}

	start := c.now()
	n := len(workers)
	ctx, span := c.tracer.Start(ctx, "fanbatch.run", trace.WithAttributes(
		attribute.String("fanbatch.run_id", c.runID),
		attribute.Int("fanbatch.workers", n),
		attribute.String("fanbatch.drain_timeout", c.drainTimeout.String()),
	))
	defer span.End()

	// Spawning
	c.advance(ctx, eventSpawn)
	results := outcome.NewChannel(c.capacityFor(n))
	c.logger.Info("launching workers",
		logging.String("run_id", c.runID),
		logging.Int("workers", n),
		logging.Int("capacity", results.Cap()))

	var g errgroup.Group
	for i, w := range workers {
		id := outcome.WorkerID{Index: i, Name: w.Name()}
		g.Go(func() error {
			c.runWorker(ctx, w, results, id)
			return nil
		})
	}

	// AwaitingCompletion: joining is not the same as N outcomes being present.
	c.advance(ctx, eventJoin)
	g.Wait() // runWorker never returns an error

	// Draining
	c.advance(ctx, eventDrain)
	outcomes, err := c.drain(ctx, results, n)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	// Summarized
	c.advance(ctx, eventSummarize)
	summary := Summarize(n, outcomes, int(results.Rejected()))
	summary.RunID = c.runID
	summary.Elapsed = c.now().Sub(start)

	c.finish(span, summary, err)
	return Report{Summary: summary, Outcomes: outcomes, Err: err}
}

func (c *Coordinator) capacityFor(n int) int {
	if c.capacity >= n {
		return c.capacity
	}
	if c.capacity > 0 {
		c.logger.Warn("channel capacity below batch size, raising it",
			logging.Int("requested", c.capacity),
			logging.Int("workers", n))
	}
	return n
}

func (c *Coordinator) runWorker(ctx context.Context, w Worker, results *outcome.Channel, id outcome.WorkerID) {
	ctx, span := c.tracer.Start(ctx, "fanbatch.worker", trace.WithAttributes(
		attribute.String("fanbatch.worker", id.String()),
		attribute.Int("fanbatch.worker_index", id.Index),
	))
	start := c.now()
	c.observer.OnWorkerStarted(id)
	defer func() {
		// A Worker that lets a panic escape has broken its contract. Contain
		// it here; the missing outcome shows up as an incomplete drain.
		if r := recover(); r != nil {
			err := apperrors.PanicError{Value: r, Stack: debug.Stack()}
			c.logger.Error("worker escaped with a panic", err, logging.String("worker", id.String()))
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
		}
		elapsed := c.now().Sub(start)
		span.End()
		c.recorder.RecordWorker(id.String(), elapsed)
		c.observer.OnWorkerFinished(id, elapsed)
	}()

	w.Run(ctx, results.Sink(id), id)
}

// drain receives exactly n outcomes. With a drain timeout, one deadline
// covers all n receives.
func (c *Coordinator) drain(ctx context.Context, results *outcome.Channel, n int) ([]outcome.Outcome, error) {
	drainCtx := ctx
	if c.drainTimeout > 0 {
		var cancel context.CancelFunc
		drainCtx, cancel = context.WithTimeout(ctx, c.drainTimeout)
		defer cancel()
	}

	outcomes := make([]outcome.Outcome, 0, n)
	for len(outcomes) < n {
		o, err := results.Receive(drainCtx)
		if err != nil {
			if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
				err = apperrors.DrainTimeoutError{Expected: n, Received: len(outcomes), Limit: c.drainTimeout}
			}
			c.logger.Warn("drain stopped short",
				logging.String("run_id", c.runID),
				logging.Int("expected", n),
				logging.Int("received", len(outcomes)),
				logging.Err(err))
			return outcomes, err
		}
		outcomes = append(outcomes, o)
		c.recorder.RecordOutcome(o)
		c.observer.OnOutcome(o)
	}
	return outcomes, nil
}

func (c *Coordinator) finish(span trace.Span, s Summary, err error) {
	span.SetAttributes(
		attribute.Int("fanbatch.received", s.Received),
		attribute.Int("fanbatch.failed", s.Failed),
		attribute.Int("fanbatch.rejected", s.Rejected),
		attribute.String("fanbatch.verdict", s.Verdict.String()),
	)
	if err != nil {
		span.RecordError(err)
	}
	if s.Verdict == VerdictError {
		span.SetStatus(codes.Error, string(s.Reason))
	}

	fields := []logging.Field{
		logging.String("run_id", s.RunID),
		logging.String("verdict", s.Verdict.String()),
		logging.String("reason", string(s.Reason)),
		logging.Int("expected", s.Expected),
		logging.Int("received", s.Received),
		logging.Int("failed", s.Failed),
		logging.Int("rejected", s.Rejected),
		logging.Duration("elapsed", s.Elapsed),
	}
	if mismatch := s.Mismatch(); mismatch != nil {
		c.logger.Error("batch summarized", mismatch, fields...)
	} else {
		c.logger.Info("batch summarized", fields...)
	}

	c.recorder.RecordRun(s)
	c.observer.OnSummary(s)
}

func (c *Coordinator) advance(ctx context.Context, event string) {
	if err := c.life.advance(ctx, event); err != nil {
		c.logger.Error("invalid coordinator transition", err, logging.String("run_id", c.runID))
	}
}

func (c *Coordinator) stateChanged(from, to State) {
	c.logger.Debug("coordinator state change",
		logging.String("run_id", c.runID),
		logging.String("from", from.String()),
		logging.String("to", to.String()))
	c.observer.OnStateChange(c.runID, from, to)
}
