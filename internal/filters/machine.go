package filters

import (
	"github.com/maxaizer/jobboard/internal/metrics"
	log "github.com/sirupsen/logrus"
	"sync"
	"time"
)

const DefaultSearchDebounce = 2000 * time.Millisecond

const (
	triggerSearch = "search"
	triggerToggle = "toggle"
	triggerRemove = "remove"
	triggerClear  = "clear"
)

// Machine owns one view's filter selection. Search input is committed after a
// quiet period; multi-select changes and resets are committed immediately.
// At most one debounce timer is live at any time. Commits are delivered to
// onCommit one at a time, in the order they were made.
type Machine struct {
	commitMu sync.Mutex

	mu        sync.Mutex
	committed State
	displayed string
	delay     time.Duration
	timer     *time.Timer
	timerGen  uint64
	stopped   bool
	onCommit  func(State)
}

func NewMachine(delay time.Duration, onCommit func(State)) *Machine {
	if delay <= 0 {
		delay = DefaultSearchDebounce
	}
	if onCommit == nil {
		onCommit = func(State) {}
	}
	return &Machine{committed: Empty(), delay: delay, onCommit: onCommit}
}

// OnSearchInput shows text right away and schedules its commit, replacing any
// pending one.
func (m *Machine) OnSearchInput(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}

	m.displayed = text
	m.cancelTimerLocked()

	gen := m.timerGen
	m.timer = time.AfterFunc(m.delay, func() { m.commitSearch(gen, text) })
}

func (m *Machine) ToggleMultiSelect(category Category, id int) {
	m.commit(triggerToggle, func(s State) State { return s.Toggle(category, id) })
}

func (m *Machine) RemoveFilterValue(category Category, id int) {
	m.commit(triggerRemove, func(s State) State { return s.Remove(category, id) })
}

func (m *Machine) ClearAll() {
	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.cancelTimerLocked()
	m.displayed = ""
	m.committed = Empty()
	state := m.committed
	m.mu.Unlock()

	m.notify(triggerClear, state)
}

// WithCommitted runs fn with the committed state while no commit can be
// delivered, so work started from the current state cannot overtake a later
// commit. fn must not call back into the machine's commit operations.
func (m *Machine) WithCommitted(fn func(State)) {
	m.commitMu.Lock()
	defer m.commitMu.Unlock()
	fn(m.State())
}

func (m *Machine) DisplayedSearch() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.displayed
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.committed
}

func (m *Machine) HasPendingSearch() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timer != nil
}

// Stop cancels the pending commit and ignores any further input.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelTimerLocked()
	m.stopped = true
}

func (m *Machine) commit(trigger string, transition func(State) State) {
	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.committed = transition(m.committed)
	state := m.committed
	m.mu.Unlock()

	m.notify(trigger, state)
}

func (m *Machine) commitSearch(gen uint64, text string) {
	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	m.mu.Lock()
	if m.stopped || gen != m.timerGen {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.committed = m.committed.WithSearch(text)
	state := m.committed
	m.mu.Unlock()

	m.notify(triggerSearch, state)
}

// cancelTimerLocked bumps the generation so a timer that already fired but has
// not yet taken the lock drops its commit.
func (m *Machine) cancelTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.timerGen++
}

func (m *Machine) notify(trigger string, state State) {
	metrics.FilterCommitsCounter.WithLabelValues(trigger).Inc()
	log.Debugf("filters committed by %s: %+v", trigger, state)
	m.onCommit(state)
}
