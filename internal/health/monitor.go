// Package health polls the backend's /health endpoint in the background
// and reports reachability to the UI as Bubble Tea messages.
package health

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/nhle/todolist/internal/api"
)

// State is the reachability of the backend.
type State int

const (
	StateUnknown State = iota
	StateOnline
	StateOffline
)

func (s State) String() string {
	switch s {
	case StateOnline:
		return "online"
	case StateOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// Status is the outcome of the latest check.
type Status struct {
	State     State
	Err       string
	CheckedAt time.Time
}

// StatusMsg is a tea.Msg sent after every check.
type StatusMsg struct {
	Status Status
}

// Checker is the part of the API client the monitor needs.
type Checker interface {
	Health(ctx context.Context) (api.HealthStatus, error)
}

const (
	defaultInterval = 60 * time.Second
	checkTimeout    = 5 * time.Second
)

// Monitor runs the polling loop.
type Monitor struct {
	checker   Checker
	interval  time.Duration
	clock     clockwork.Clock
	logger    *log.Logger
	resultCh  chan StatusMsg
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu      sync.Mutex
	status  Status
	running bool
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock replaces the real clock.
func WithClock(c clockwork.Clock) Option {
	return func(m *Monitor) { m.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l.WithPrefix("health")
		}
	}
}

// New creates a monitor checking every interval. A non-positive interval
// uses the default of one minute.
func New(checker Checker, interval time.Duration, opts ...Option) *Monitor {
	if interval <= 0 {
		interval = defaultInterval
	}
	m := &Monitor{
		checker:   checker,
		interval:  interval,
		clock:     clockwork.NewRealClock(),
		logger:    log.Default().WithPrefix("health"),
		resultCh:  make(chan StatusMsg, 4),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start launches the polling goroutine and returns a command that waits
// for the first result. It returns nil if the monitor is already running.
func (m *Monitor) Start() tea.Cmd {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = true
	m.mu.Unlock()

	go m.loop()
	return m.Wait()
}

// Stop halts the polling goroutine.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	close(m.stopCh)
	m.running = false
}

// Refresh requests an immediate check.
func (m *Monitor) Refresh() {
	select {
	case m.triggerCh <- struct{}{}:
	default:
		// A check is already pending.
	}
}

// Status returns the latest result.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Wait returns a command that blocks until the next result. Call it again
// after handling each StatusMsg to keep listening.
func (m *Monitor) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.resultCh:
			return msg
		case <-m.stopCh:
			return nil
		}
	}
}

func (m *Monitor) loop() {
	ticker := m.clock.NewTicker(m.interval)
	defer ticker.Stop()

	m.check()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.Chan():
			m.check()
		case <-m.triggerCh:
			m.check()
		}
	}
}

func (m *Monitor) check() {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	status := Status{State: StateOnline, CheckedAt: m.clock.Now()}
	if _, err := m.checker.Health(ctx); err != nil {
		status.State = StateOffline
		status.Err = api.Message(err)
		m.logger.Debug("backend unreachable", "err", err)
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()

	select {
	case m.resultCh <- StatusMsg{Status: status}:
	default:
		// Nobody is listening; the latest status is still kept.
	}
}
