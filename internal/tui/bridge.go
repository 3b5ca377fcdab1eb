package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/fanbatch/internal/orchestration"
	"github.com/agbru/fanbatch/internal/outcome"
)

// programRef is a shared reference to the tea.Program. Bubbletea copies the
// model on every Update, so the bridge holds a pointer that survives copies.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference.
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program. It is a no-op before SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// bridgeObserver turns coordinator notifications into refresh messages.
// The dashboard reads the actual state from a ProgressTracker that sits in
// front of the bridge in a MultiObserver.
type bridgeObserver struct {
	ref *programRef
}

var _ orchestration.Observer = bridgeObserver{}

func (b bridgeObserver) OnStateChange(_ string, _, to orchestration.State) {
	b.ref.Send(refreshMsg{State: to})
}

func (b bridgeObserver) OnWorkerStarted(outcome.WorkerID) { b.ref.Send(refreshMsg{}) }

func (b bridgeObserver) OnWorkerFinished(outcome.WorkerID, time.Duration) {
	b.ref.Send(refreshMsg{})
}

func (b bridgeObserver) OnOutcome(outcome.Outcome) { b.ref.Send(refreshMsg{}) }

func (b bridgeObserver) OnSummary(orchestration.Summary) { b.ref.Send(refreshMsg{}) }
