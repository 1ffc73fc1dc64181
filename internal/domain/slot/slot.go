package slot

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTimeLabel  = errors.New("time label must be HH:MM")
	ErrZeroDate          = errors.New("slot date is required")
	ErrInvalidCapacity   = errors.New("total capacity must be positive")
	ErrCapacityInvariant = errors.New("committed count exceeds total capacity")
	ErrDateInPast        = errors.New("slot date is before today")
	ErrBeyondHorizon     = errors.New("slot date is beyond the booking horizon")
)

var timeLabelPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Key identifies a bookable slot by calendar date and time-of-day label,
// e.g. (2025-05-10, "09:00"). The label is opaque beyond its format; slots
// carry no duration.
type Key struct {
	date  time.Time
	label string
}

func NewKey(date time.Time, label string) (Key, error) {
	if date.IsZero() {
		return Key{}, ErrZeroDate
	}
	if !timeLabelPattern.MatchString(label) {
		return Key{}, ErrInvalidTimeLabel
	}
	y, m, d := date.UTC().Date()
	return Key{
		date:  time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		label: label,
	}, nil
}

func ParseKey(dateStr, label string) (Key, error) {
	d, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return Key{}, fmt.Errorf("invalid slot date %q: %w", dateStr, err)
	}
	return NewKey(d, label)
}

func (k Key) Date() time.Time {
	return k.date
}

func (k Key) Label() string {
	return k.label
}

func (k Key) String() string {
	return k.date.Format("2006-01-02") + " " + k.label
}

// ValidateBookable rejects keys outside the window [today, today+horizonDays].
// Availability reads and hold placement share this rule so a client can never
// hold what availability would not show.
func (k Key) ValidateBookable(now time.Time, horizonDays int) error {
	today := truncateToDay(now)
	if k.date.Before(today) {
		return ErrDateInPast
	}
	if horizonDays > 0 && k.date.After(today.AddDate(0, 0, horizonDays)) {
		return ErrBeyondHorizon
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Slot is the capacity record for one key. committedCount only moves through
// the booking committer; holds live in their own ledger and are not part of
// this entity.
type Slot struct {
	id             uuid.UUID
	key            Key
	totalCapacity  int
	committedCount int
	priceCents     int64
}

func New(id uuid.UUID, key Key, totalCapacity, committedCount int, priceCents int64) (*Slot, error) {
	if totalCapacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if committedCount < 0 || committedCount > totalCapacity {
		return nil, ErrCapacityInvariant
	}
	return &Slot{
		id:             id,
		key:            key,
		totalCapacity:  totalCapacity,
		committedCount: committedCount,
		priceCents:     priceCents,
	}, nil
}

func (s *Slot) ID() uuid.UUID {
	return s.id
}

func (s *Slot) Key() Key {
	return s.key
}

func (s *Slot) TotalCapacity() int {
	return s.totalCapacity
}

func (s *Slot) CommittedCount() int {
	return s.committedCount
}

func (s *Slot) PriceCents() int64 {
	return s.priceCents
}

// Remaining is the truthful availability number: capacity not yet committed
// and not claimed by an active hold.
func (s *Slot) Remaining(activeHolds int) int {
	r := s.totalCapacity - s.committedCount - activeHolds
	if r < 0 {
		return 0
	}
	return r
}

// CanHold reports whether requested additional units fit under the invariant
// committed + holds + requested <= total.
func (s *Slot) CanHold(activeHolds, requested int) bool {
	return s.committedCount+activeHolds+requested <= s.totalCapacity
}
