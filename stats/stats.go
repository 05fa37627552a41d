// Package stats keeps the aggregate Pomodoro statistics and reports on the
// session history
package stats

import (
	"sync"

	"github.com/ayoisaiah/toolbox/internal/models"
	"github.com/ayoisaiah/toolbox/store"
)

// Store is an observable holder of the aggregate statistics. Every mutation
// is written through to the gateway and delivered to all subscribers. A
// single Store is shared by every component of the process.
type Store struct {
	gateway *store.Gateway
	subs    map[int]func(models.Statistics)
	value   models.Statistics
	nextID  int

	// writeMu orders mutation, persistence and delivery so subscribers see
	// every state exactly in the order it was produced.
	writeMu sync.Mutex
	mu      sync.RWMutex
}

// New creates a Store seeded from the gateway.
func New(g *store.Gateway) *Store {
	return &Store{
		gateway: g,
		value:   g.LoadStats(),
		subs:    make(map[int]func(models.Statistics)),
	}
}

// Get returns the current statistics.
func (s *Store) Get() models.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.value
}

// Subscribe registers fn and calls it with the current value before
// returning. fn is then called after every mutation until the returned
// function is invoked. fn must not call the Store's mutators.
func (s *Store) Subscribe(fn func(models.Statistics)) (unsubscribe func()) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	v := s.value
	s.mu.Unlock()

	fn(v)

	var once sync.Once

	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// update applies fn to the statistics, persists the result and notifies
// subscribers.
func (s *Store) update(fn func(*models.Statistics)) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.apply(fn, true)
}

// apply must be called with writeMu held.
func (s *Store) apply(fn func(*models.Statistics), persist bool) {
	s.mu.Lock()
	fn(&s.value)
	v := s.value

	subs := make([]func(models.Statistics), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	if persist {
		s.gateway.SaveStats(v)
	}

	for _, sub := range subs {
		sub(v)
	}
}

// UpdateWork records a completed work session of duration seconds.
func (s *Store) UpdateWork(duration int) {
	s.update(func(st *models.Statistics) {
		st.TotalWorkSessions++
		st.TotalWorkTime += duration
		st.CurrentStreak++
		st.LongestStreak = max(st.LongestStreak, st.CurrentStreak)
		st.TodaySessions++
		st.WeekSessions++
	})
}

// UpdateBreak records a completed break of duration seconds. Breaks do not
// extend the streak.
func (s *Store) UpdateBreak(duration int) {
	s.update(func(st *models.Statistics) {
		st.TotalBreakSessions++
		st.TotalBreakTime += duration
		st.TodaySessions++
		st.WeekSessions++
	})
}

func (s *Store) ResetStreak() {
	s.update(func(st *models.Statistics) {
		st.CurrentStreak = 0
	})
}

func (s *Store) ResetAll() {
	s.update(func(st *models.Statistics) {
		*st = models.Statistics{}
	})
}

// ResetDaily zeroes the sessions counted today. Day rollover is left to the
// caller.
func (s *Store) ResetDaily() {
	s.update(func(st *models.Statistics) {
		st.TodaySessions = 0
	})
}

// ResetWeekly zeroes the sessions counted this week.
func (s *Store) ResetWeekly() {
	s.update(func(st *models.Statistics) {
		st.WeekSessions = 0
	})
}

// LoadFromStorage replaces the in-memory value with the stored one.
func (s *Store) LoadFromStorage() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	v := s.gateway.LoadStats()

	s.apply(func(st *models.Statistics) {
		*st = v
	}, false)
}

// Save writes the current value to storage.
func (s *Store) Save() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.gateway.SaveStats(s.Get())
}
