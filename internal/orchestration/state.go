package orchestration

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
)

// State is a coordinator lifecycle state.
type State string

// Coordinator states, in the only order a run visits them.
const (
	StateIdle               State = "idle"
	StateSpawning           State = "spawning"
	StateAwaitingCompletion State = "awaiting_completion"
	StateDraining           State = "draining"
	StateSummarized         State = "summarized"
)

// String returns the state name.
func (s State) String() string { return string(s) }

// Lifecycle events.
const (
	eventSpawn     = "spawn"
	eventJoin      = "join"
	eventDrain     = "drain"
	eventSummarize = "summarize"
)

// lifecycle wraps the state machine that enforces the run ordering:
// every worker is joined before the drain starts, and the drain finishes
// before the summary is computed.
type lifecycle struct {
	machine *fsm.FSM
}

func newLifecycle(onChange func(from, to State)) *lifecycle {
	return &lifecycle{
		machine: fsm.NewFSM(
			string(StateIdle),
			fsm.Events{
				{Name: eventSpawn, Src: []string{string(StateIdle)}, Dst: string(StateSpawning)},
				{Name: eventJoin, Src: []string{string(StateSpawning)}, Dst: string(StateAwaitingCompletion)},
				{Name: eventDrain, Src: []string{string(StateAwaitingCompletion)}, Dst: string(StateDraining)},
				{Name: eventSummarize, Src: []string{string(StateDraining)}, Dst: string(StateSummarized)},
			},
			fsm.Callbacks{
				"enter_state": func(_ context.Context, e *fsm.Event) {
					onChange(State(e.Src), State(e.Dst))
				},
			},
		),
	}
}

// advance fires event. Transitions are driven with a context that is never
// canceled so a canceled run still reaches the summarized state.
func (l *lifecycle) advance(ctx context.Context, event string) error {
	if err := l.machine.Event(context.WithoutCancel(ctx), event); err != nil {
		return fmt.Errorf("coordinator %s from %s: %w", event, l.machine.Current(), err)
	}
	return nil
}

// Current returns the current state.
func (l *lifecycle) Current() State {
	return State(l.machine.Current())
}
