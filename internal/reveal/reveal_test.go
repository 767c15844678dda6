package reveal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualScheduler queues transition callbacks so tests crank the
// machine forward without waiting on the wall clock.
type manualScheduler struct {
	pending []func()
	delays  []time.Duration
}

func (s *manualScheduler) schedule(d time.Duration, fn func()) {
	s.pending = append(s.pending, fn)
	s.delays = append(s.delays, d)
}

func (s *manualScheduler) fire(t *testing.T) {
	t.Helper()
	require.NotEmpty(t, s.pending, "no pending transition to fire")
	fn := s.pending[0]
	s.pending = s.pending[1:]
	fn()
}

func newTestMachine(onOpened func()) (*Machine, *manualScheduler) {
	m := NewMachine(onOpened)
	s := &manualScheduler{}
	m.SetScheduler(s.schedule)
	return m, s
}

func TestMachine_FullSequence(t *testing.T) {
	openedCalls := 0
	m, s := newTestMachine(func() { openedCalls++ })

	assert.Equal(t, StateAwaitingDelivery, m.State())

	m.Start()
	s.fire(t)
	assert.Equal(t, StateDelivering, m.State())

	s.fire(t)
	assert.Equal(t, StateDeliveredUnopened, m.State())

	require.True(t, m.Click())
	assert.Equal(t, StateOpening, m.State())
	assert.Zero(t, openedCalls, "callback only fires after the opening delay")

	s.fire(t)
	assert.Equal(t, StateOpened, m.State())
	assert.Equal(t, 1, openedCalls)
}

func TestMachine_ClickBeforeDeliveryIsIgnored(t *testing.T) {
	m, s := newTestMachine(nil)

	assert.False(t, m.Click(), "click before start must be ignored")

	m.Start()
	s.fire(t) // delivering
	assert.False(t, m.Click(), "click mid-flight must be ignored")
	assert.Equal(t, StateDelivering, m.State())

	s.fire(t) // delivered
	assert.True(t, m.Click())
}

func TestMachine_StartIsOneShot(t *testing.T) {
	m, s := newTestMachine(nil)

	m.Start()
	m.Start()
	assert.Len(t, s.pending, 1, "a second Start must not schedule another delivery")
}

func TestMachine_ClickAfterOpenedIsIgnored(t *testing.T) {
	m, s := newTestMachine(nil)

	m.Start()
	s.fire(t)
	s.fire(t)
	require.True(t, m.Click())
	s.fire(t)
	require.Equal(t, StateOpened, m.State())

	assert.False(t, m.Click())
	assert.Equal(t, StateOpened, m.State())
}

func TestMachine_UsesConfiguredDelays(t *testing.T) {
	m, s := newTestMachine(nil)
	m.TakeoffDelay = 10 * time.Millisecond
	m.FlightDelay = 20 * time.Millisecond
	m.OpeningDelay = 30 * time.Millisecond

	m.Start()
	s.fire(t)
	s.fire(t)
	m.Click()

	assert.Equal(t, []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		30 * time.Millisecond,
	}, s.delays)
}
