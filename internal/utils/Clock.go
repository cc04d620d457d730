package utils

import "time"

// Clock abstracts "now" so timestamping (e.g. the DTSTAMP of exported
// iCalendar events) stays testable.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

// MockClock returns a fixed instant, for tests.
type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}
