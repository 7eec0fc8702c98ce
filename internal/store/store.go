// Package store holds the single selection state shared by every chart and
// notifies subscribers when it changes.
package store

import (
	"sync"

	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
	"github.com/Sumatoshi-tech/seasonality/pkg/filter"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

// Default metrics selected on the comparison and advertiser charts.
const (
	DefaultUserMetric       = dataset.MetricDownloadsIndexed
	DefaultAdvertiserMetric = dataset.MetricAdOpportunities
)

// State is everything the charts are filtered by.
type State struct {
	Selection        filter.Selection `json:"selection"`
	Season           season.Season    `json:"season"`
	Period           season.PeriodID  `json:"period"`
	UserMetric       string           `json:"userMetric"`
	AdvertiserMetric string           `json:"advertiserMetric"`
}

// DefaultState is the state before any user interaction.
func DefaultState() State {
	return State{
		Selection:        filter.DefaultSelection(),
		Season:           season.Past,
		Period:           season.PeriodAll,
		UserMetric:       DefaultUserMetric,
		AdvertiserMetric: DefaultAdvertiserMetric,
	}
}

// Listener receives the new state after a change.
type Listener func(State)

// Action transforms a state.
type Action func(State) State

// Store is safe for concurrent use. Listeners run synchronously on the
// goroutine that dispatched the change, after the lock is released.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// New returns a store holding initial.
func New(initial State) *Store {
	return &Store{state: initial, listeners: make(map[int]Listener)}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Subscribe registers fn and returns a func that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Dispatch applies actions in order as one change. Listeners are notified
// once, and only if the resulting state differs.
func (s *Store) Dispatch(actions ...Action) State {
	s.mu.Lock()

	next := s.state
	for _, a := range actions {
		next = a(next)
	}

	if next == s.state {
		s.mu.Unlock()

		return next
	}

	s.state = next

	listeners := make([]Listener, 0, len(s.listeners))
	for id := range s.nextID {
		if fn, ok := s.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}

	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}

	return next
}

// SetSystem selects the operating system.
func SetSystem(sys dataset.System) Action {
	return func(st State) State {
		st.Selection.System = sys

		return st
	}
}

// SetCountry selects the country.
func SetCountry(country string) Action {
	return func(st State) State {
		st.Selection.Country = country

		return st
	}
}

// SetCategory selects the category and resets the vertical to all, since
// verticals belong to one category.
func SetCategory(c dataset.Category) Action {
	return func(st State) State {
		if st.Selection.Category != c {
			st.Selection.Vertical = dataset.VerticalAll
		}

		st.Selection.Category = c

		return st
	}
}

// SetVertical selects the vertical.
func SetVertical(v string) Action {
	return func(st State) State {
		st.Selection.Vertical = dataset.FoldVertical(v)

		return st
	}
}

// ResetVertical selects the aggregate vertical.
func ResetVertical() Action {
	return SetVertical(dataset.VerticalAll)
}

// SetSeason selects the comparison season.
func SetSeason(s season.Season) Action {
	return func(st State) State {
		st.Season = s

		return st
	}
}

// SetPeriod selects the comparison period.
func SetPeriod(p season.PeriodID) Action {
	return func(st State) State {
		st.Period = p

		return st
	}
}

// SetUserMetric selects the user-engagement metric.
func SetUserMetric(m string) Action {
	return func(st State) State {
		st.UserMetric = m

		return st
	}
}

// SetAdvertiserMetric selects the advertiser metric.
func SetAdvertiserMetric(m string) Action {
	return func(st State) State {
		st.AdvertiserMetric = m

		return st
	}
}

// ApplyRecovery switches to the suggested category and vertical.
func ApplyRecovery(r filter.Recovery) Action {
	return func(st State) State {
		st.Selection.Category = r.Category
		st.Selection.Vertical = r.Vertical

		return st
	}
}
