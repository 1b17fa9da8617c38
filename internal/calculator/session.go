package calculator

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"go-chi-calculator/internal/calc"
)

var (
	ErrSessionNotFound = errors.New("calculator session not found")
	ErrTooManySessions = errors.New("too many calculator sessions")
)

// activeSessions is scraped from /metrics alongside the OTel instruments.
var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "calculator",
	Name:      "sessions_active",
	Help:      "Number of calculator sessions currently held in memory.",
})

// Calculator owns one calculator state. Actions are applied one at a time,
// each to completion, in the order Dispatch is called.
type Calculator struct {
	id      string
	created time.Time

	mu      sync.Mutex
	state   calc.State
	updated time.Time
}

// New returns a calculator in the initial state.
func New() *Calculator {
	now := time.Now()
	return &Calculator{
		id:      uuid.New().String(),
		created: now,
		updated: now,
	}
}

func (c *Calculator) ID() string {
	return c.id
}

// State returns a copy of the current state.
func (c *Calculator) State() calc.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UpdatedAt is when the last action was applied.
func (c *Calculator) UpdatedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updated
}

// Dispatch applies a and returns the states before and after it.
func (c *Calculator) Dispatch(a calc.Action) (before, after calc.State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	before = c.state
	c.state = calc.Reduce(c.state, a)
	c.updated = time.Now()
	return before, c.state
}

// Transition is one action applied by DispatchAll.
type Transition struct {
	Action calc.Action
	Before calc.State
	After  calc.State
}

// DispatchAll applies actions in order without letting another Dispatch or
// DispatchAll run in between.
func (c *Calculator) DispatchAll(actions []calc.Action) []Transition {
	c.mu.Lock()
	defer c.mu.Unlock()

	steps := make([]Transition, 0, len(actions))
	for _, a := range actions {
		before := c.state
		c.state = calc.Reduce(c.state, a)
		steps = append(steps, Transition{Action: a, Before: before, After: c.state})
	}
	c.updated = time.Now()
	return steps
}

// Store holds the calculators served over HTTP. Sessions live in memory only.
type Store struct {
	max int

	mu       sync.RWMutex
	sessions map[string]*Calculator
}

// NewStore returns a store that holds at most limit sessions. limit <= 0 means
// no limit.
func NewStore(limit int) *Store {
	return &Store{
		max:      limit,
		sessions: make(map[string]*Calculator),
	}
}

// Create starts a new session.
func (s *Store) Create() (*Calculator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.max > 0 && len(s.sessions) >= s.max {
		return nil, ErrTooManySessions
	}

	c := New()
	s.sessions[c.id] = c
	activeSessions.Inc()
	return c, nil
}

func (s *Store) Get(id string) (*Calculator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return c, nil
}

// Delete ends a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	activeSessions.Dec()
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
