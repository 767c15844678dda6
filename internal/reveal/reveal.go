// Package reveal drives the letter-opening sequence shown before the
// invitation card.
package reveal

import (
	"sync"
	"time"
)

// State is a stop in the letter-reveal sequence.
type State string

const (
	StateAwaitingDelivery  State = "awaiting-delivery"
	StateDelivering        State = "delivering"
	StateDeliveredUnopened State = "delivered-unopened"
	StateOpening           State = "opening"
	StateOpened            State = "opened"
)

// Default transition delays, matching the animation timings of the
// invitation page.
const (
	DefaultTakeoffDelay = 500 * time.Millisecond
	DefaultFlightDelay  = 2500 * time.Millisecond
	DefaultOpeningDelay = 1500 * time.Millisecond
)

// Scheduler runs fn once after d has elapsed. Production machines use
// time.AfterFunc; tests substitute a hand-cranked scheduler so no
// test waits on the wall clock.
type Scheduler func(d time.Duration, fn func())

// Machine is the one-shot letter reveal state machine.
//
// The sequence is strictly linear and non-cancelable:
//
//	awaiting-delivery -> delivering -> delivered-unopened -> opening -> opened
//
// All transitions are time-gated except delivered-unopened -> opening,
// which requires the guest's click. Clicks before the letter has
// landed are ignored.
type Machine struct {
	mu       sync.Mutex
	state    State
	started  bool
	schedule Scheduler
	onOpened func()

	TakeoffDelay time.Duration
	FlightDelay  time.Duration
	OpeningDelay time.Duration
}

// NewMachine creates a machine that invokes onOpened once the letter
// has finished opening. onOpened may be nil.
func NewMachine(onOpened func()) *Machine {
	return &Machine{
		state:        StateAwaitingDelivery,
		schedule:     func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		onOpened:     onOpened,
		TakeoffDelay: DefaultTakeoffDelay,
		FlightDelay:  DefaultFlightDelay,
		OpeningDelay: DefaultOpeningDelay,
	}
}

// SetScheduler replaces the transition scheduler. Must be called
// before Start.
func (m *Machine) SetScheduler(s Scheduler) {
	m.schedule = s
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start launches the delivery animation. Calling it again is a no-op;
// there is exactly one reveal per page load.
func (m *Machine) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true
	m.schedule(m.TakeoffDelay, func() {
		m.advance(StateAwaitingDelivery, StateDelivering)
		m.schedule(m.FlightDelay, func() {
			m.advance(StateDelivering, StateDeliveredUnopened)
		})
	})
}

// Click is the guest tapping the letter. It is accepted only once
// delivery has completed; it returns whether the click took effect.
func (m *Machine) Click() bool {
	m.mu.Lock()
	if m.state != StateDeliveredUnopened {
		m.mu.Unlock()
		return false
	}
	m.state = StateOpening
	m.mu.Unlock()

	m.schedule(m.OpeningDelay, func() {
		if m.advance(StateOpening, StateOpened) && m.onOpened != nil {
			m.onOpened()
		}
	})
	return true
}

func (m *Machine) advance(from, to State) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != from {
		return false
	}
	m.state = to
	return true
}
