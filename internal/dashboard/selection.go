package dashboard

import (
	"sync"
	"time"

	"github.com/Aebel-Shajan/activity-tracker/internal/core/aggregation"
)

// Selection owns the currently selected calendar day. SetSelectedDate,
// Next and Prev are the only writers; every view reads it through
// SelectedDate.
type Selection struct {
	mu   sync.RWMutex
	date time.Time
}

// NewSelection starts the selection at the UTC day containing initial.
func NewSelection(initial time.Time) *Selection {
	return &Selection{date: aggregation.TruncateToDay(initial)}
}

// SelectedDate returns the selected day as UTC midnight.
func (s *Selection) SelectedDate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.date
}

// SetSelectedDate selects the UTC day containing t and returns it.
func (s *Selection) SetSelectedDate(t time.Time) time.Time {
	day := aggregation.TruncateToDay(t)

	s.mu.Lock()
	s.date = day
	s.mu.Unlock()
	return day
}

// Next advances the selection by one day.
func (s *Selection) Next() time.Time {
	return s.shift(1)
}

// Prev moves the selection back by one day.
func (s *Selection) Prev() time.Time {
	return s.shift(-1)
}

func (s *Selection) shift(days int) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.date = s.date.AddDate(0, 0, days)
	return s.date
}
