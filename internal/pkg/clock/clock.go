// Package clock abstracts the current time so hold expiry, session
// abandonment and retry scheduling can be driven deterministically in tests.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystemClock returns the wall-clock implementation wired in production.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// MockClock is a manually advanced clock. Tests move it past a hold's TTL or
// a retry deadline instead of sleeping.
type MockClock struct {
	now time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

func (c *MockClock) Now() time.Time {
	return c.now
}

func (c *MockClock) Add(d time.Duration) {
	c.now = c.now.Add(d)
}
