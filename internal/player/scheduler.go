// Package player drives the cyclic, pausable slideshow over an assembled
// playback queue.
package player

import (
	"errors"
	"sync"
	"time"

	"github.com/cabz1691/reddit-media-viewer/internal/domain"
)

// ErrEmptyQueue is returned when playback is started with nothing to play.
var ErrEmptyQueue = errors.New("playback queue is empty")

// State of the scheduler's machine.
type State int

const (
	StateSetup State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "setup"
	}
}

// Scheduler owns the playback queue and the single repeating interval that
// advances it. Timer ticks, explicit skips, and media end/error events all
// funnel into the same advance operation, so the cyclic-advance behavior is
// identical regardless of trigger.
type Scheduler struct {
	mu        sync.Mutex
	interval  time.Duration
	onAdvance func(pos int, item domain.MediaItem)

	state State
	queue []domain.MediaItem
	pos   int
	timer *time.Timer
	gen   uint64 // invalidates stray timers from previous arms
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithOnAdvance registers a callback invoked after every advance, outside the
// scheduler's lock.
func WithOnAdvance(fn func(pos int, item domain.MediaItem)) Option {
	return func(s *Scheduler) { s.onAdvance = fn }
}

// New builds a scheduler in the Setup state.
func New(interval time.Duration, opts ...Option) *Scheduler {
	s := &Scheduler{interval: interval, state: StateSetup}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the queue wholesale, resets the position to 0, and enters
// Playing. An empty queue is refused and the scheduler stays as it was.
func (s *Scheduler) Load(queue []domain.MediaItem) error {
	if len(queue) == 0 {
		return ErrEmptyQueue
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmLocked()
	s.queue = append([]domain.MediaItem(nil), queue...)
	s.pos = 0
	s.state = StatePlaying
	s.armLocked()
	return nil
}

// Advance moves to the next item, wrapping modulo the queue length. It is
// the single operation behind the timer tick, explicit skip, media end, and
// media error; it is a no-op outside Playing.
func (s *Scheduler) Advance() {
	s.mu.Lock()
	if s.state != StatePlaying {
		s.mu.Unlock()
		return
	}
	pos, item := s.advanceLocked()
	cb := s.onAdvance
	s.mu.Unlock()

	if cb != nil {
		cb(pos, item)
	}
}

// Pause cancels the interval without touching the position.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePlaying {
		return
	}
	s.disarmLocked()
	s.state = StatePaused
}

// Resume re-enters Playing and re-arms a full interval; it does not resume a
// partially elapsed one.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaused {
		return
	}
	s.state = StatePlaying
	s.armLocked()
}

// Stop returns to Setup and discards the queue.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmLocked()
	s.state = StateSetup
	s.queue = nil
	s.pos = 0
}

// Current returns the item under the cursor, if any.
func (s *Scheduler) Current() (domain.MediaItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return domain.MediaItem{}, false
	}
	return s.queue[s.pos], true
}

// Position returns the current cursor index.
func (s *Scheduler) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// State returns the current machine state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Len returns the queue length.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Scheduler) advanceLocked() (int, domain.MediaItem) {
	s.pos = (s.pos + 1) % len(s.queue)
	return s.pos, s.queue[s.pos]
}

// armLocked starts the next tick. Callers hold s.mu. Bumping gen first
// guarantees at most one live interval per scheduler.
func (s *Scheduler) armLocked() {
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(s.interval, func() { s.tick(gen) })
}

func (s *Scheduler) disarmLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Scheduler) tick(gen uint64) {
	s.mu.Lock()
	if s.state != StatePlaying || gen != s.gen {
		s.mu.Unlock()
		return
	}
	pos, item := s.advanceLocked()
	s.armLocked()
	cb := s.onAdvance
	s.mu.Unlock()

	if cb != nil {
		cb(pos, item)
	}
}
