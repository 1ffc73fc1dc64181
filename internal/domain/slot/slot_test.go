//go:build unit

package slot_test

import (
	"testing"
	"time"

	"slot-booking/internal/domain/slot"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseKey(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		k, err := slot.ParseKey("2025-05-10", "09:00")
		require.NoError(t, err)
		assert.Equal(t, date(2025, 5, 10), k.Date())
		assert.Equal(t, "09:00", k.Label())
		assert.Equal(t, "2025-05-10 09:00", k.String())
	})

	t.Run("date is normalized to UTC midnight", func(t *testing.T) {
		loc := time.FixedZone("JST", 9*3600)
		k, err := slot.NewKey(time.Date(2025, 5, 10, 23, 30, 0, 0, loc), "10:00")
		require.NoError(t, err)
		assert.Equal(t, date(2025, 5, 10), k.Date())
	})

	cases := []struct {
		name  string
		date  string
		label string
		errIs error
	}{
		{name: "label without zero padding", date: "2025-05-10", label: "9:00", errIs: slot.ErrInvalidTimeLabel},
		{name: "label hour out of range", date: "2025-05-10", label: "24:00", errIs: slot.ErrInvalidTimeLabel},
		{name: "label minute out of range", date: "2025-05-10", label: "09:60", errIs: slot.ErrInvalidTimeLabel},
		{name: "label with seconds", date: "2025-05-10", label: "09:00:00", errIs: slot.ErrInvalidTimeLabel},
		{name: "empty label", date: "2025-05-10", label: "", errIs: slot.ErrInvalidTimeLabel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := slot.ParseKey(tc.date, tc.label)
			assert.ErrorIs(t, err, tc.errIs)
		})
	}

	t.Run("malformed date", func(t *testing.T) {
		_, err := slot.ParseKey("05/10/2025", "09:00")
		assert.Error(t, err)
	})
}

func TestKeyValidateBookable(t *testing.T) {
	now := time.Date(2025, 5, 10, 15, 30, 0, 0, time.UTC)
	const horizon = 90

	mustKey := func(d, label string) slot.Key {
		k, err := slot.ParseKey(d, label)
		require.NoError(t, err)
		return k
	}

	t.Run("today is bookable regardless of time of day", func(t *testing.T) {
		assert.NoError(t, mustKey("2025-05-10", "09:00").ValidateBookable(now, horizon))
	})

	t.Run("yesterday is rejected", func(t *testing.T) {
		err := mustKey("2025-05-09", "09:00").ValidateBookable(now, horizon)
		assert.ErrorIs(t, err, slot.ErrDateInPast)
	})

	t.Run("horizon boundary is bookable", func(t *testing.T) {
		assert.NoError(t, mustKey("2025-08-08", "09:00").ValidateBookable(now, horizon))
	})

	t.Run("beyond horizon is rejected", func(t *testing.T) {
		err := mustKey("2025-08-09", "09:00").ValidateBookable(now, horizon)
		assert.ErrorIs(t, err, slot.ErrBeyondHorizon)
	})

	t.Run("zero horizon disables the upper bound", func(t *testing.T) {
		assert.NoError(t, mustKey("2030-01-01", "09:00").ValidateBookable(now, 0))
	})
}

func TestSlotCapacity(t *testing.T) {
	key, err := slot.ParseKey("2025-05-10", "09:00")
	require.NoError(t, err)

	t.Run("invariant violations are rejected at construction", func(t *testing.T) {
		_, err := slot.New(uuid.New(), key, 0, 0, 1000)
		assert.ErrorIs(t, err, slot.ErrInvalidCapacity)

		_, err = slot.New(uuid.New(), key, 3, 4, 1000)
		assert.ErrorIs(t, err, slot.ErrCapacityInvariant)

		_, err = slot.New(uuid.New(), key, 3, -1, 1000)
		assert.ErrorIs(t, err, slot.ErrCapacityInvariant)
	})

	t.Run("remaining subtracts committed and active holds", func(t *testing.T) {
		s, err := slot.New(uuid.New(), key, 5, 2, 1000)
		require.NoError(t, err)

		assert.Equal(t, 3, s.Remaining(0))
		assert.Equal(t, 1, s.Remaining(2))
		assert.Equal(t, 0, s.Remaining(3))
		assert.Equal(t, 0, s.Remaining(10))
	})

	t.Run("can hold up to the invariant boundary", func(t *testing.T) {
		s, err := slot.New(uuid.New(), key, 5, 2, 1000)
		require.NoError(t, err)

		assert.True(t, s.CanHold(2, 1))
		assert.False(t, s.CanHold(3, 1))
		assert.False(t, s.CanHold(2, 2))
		assert.True(t, s.CanHold(0, 3))
	})
}
