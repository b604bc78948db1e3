package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotDate(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		raw   string
		year  int
		month int
		day   int
	}{
		{"slash day first", "19/02/2026", 2026, 2, 19},
		{"slash year first", "2026/02/19", 2026, 2, 19},
		{"dash iso", "2026-02-19", 2026, 2, 19},
		{"dash day first", "19-02-2026", 2026, 2, 19},
		{"padded segments", " 19 / 02 / 2026 ", 2026, 2, 19},
		{"garbage falls back to now", "amanhã", 2026, 8, 30},
		{"two segments fall back", "19/02", 2026, 8, 30},
		{"non numeric segment falls back", "19/fev/2026", 2026, 8, 30},
		{"empty falls back", "", 2026, 8, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, m, d := ParseSlotDate(tt.raw, now)
			assert.Equal(t, tt.year, y)
			assert.Equal(t, tt.month, m)
			assert.Equal(t, tt.day, d)
		})
	}
}

func TestCombineSlotDateTime(t *testing.T) {
	loc, err := time.LoadLocation("America/Boa_Vista")
	require.NoError(t, err)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, loc)

	got := CombineSlotDateTime("19/02/2026", "10:00", loc, now)
	assert.Equal(t, time.Date(2026, 2, 19, 10, 0, 0, 0, loc), got)

	// No time defaults to the office opening hour.
	got = CombineSlotDateTime("19/02/2026", "", loc, now)
	assert.Equal(t, 8, got.Hour())
	assert.Equal(t, 0, got.Minute())

	got = CombineSlotDateTime("19/02/2026", "14:30", loc, now)
	assert.Equal(t, 14, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestRFC3339LocalOffset(t *testing.T) {
	loc, err := time.LoadLocation("America/Boa_Vista")
	require.NoError(t, err)

	got := RFC3339LocalOffset(time.Date(2026, 2, 19, 10, 0, 0, 0, loc))
	assert.Equal(t, "2026-02-19T10:00:00-04:00", got)

	// UTC instants must still carry a numeric offset, never "Z".
	got = RFC3339LocalOffset(time.Date(2026, 2, 19, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-02-19T10:00:00+00:00", got)
}

func TestSlotDateISO(t *testing.T) {
	assert.Equal(t, "2026-02-19", SlotDateISO("19/02/2026"))
	assert.Equal(t, "", SlotDateISO("19/02"))
	assert.Equal(t, "", SlotDateISO(""))
}

func TestFormatSlotDate(t *testing.T) {
	assert.Equal(t, "19/02/2026", FormatSlotDate("2026-02-19"))
	assert.Equal(t, "nope", FormatSlotDate("nope"))
}

func TestRange(t *testing.T) {
	t.Run("weekday filter", func(t *testing.T) {
		// 2026-02-02 is a Monday, 2026-02-13 a Friday.
		got, err := Range("2026-02-02", "2026-02-13", []int{1, 2, 3, 4, 5})
		require.NoError(t, err)
		assert.Len(t, got, 10)
		assert.Equal(t, "2026-02-02", got[0])
		assert.Equal(t, "2026-02-13", got[9])
		assert.NotContains(t, got, "2026-02-07")
		assert.NotContains(t, got, "2026-02-08")
	})

	t.Run("single day ignores weekdays", func(t *testing.T) {
		// 2026-02-08 is a Sunday, excluded by the filter, returned anyway.
		got, err := Range("2026-02-08", "", []int{1, 2, 3, 4, 5})
		require.NoError(t, err)
		assert.Equal(t, []string{"2026-02-08"}, got)
	})

	t.Run("no matching weekday", func(t *testing.T) {
		got, err := Range("2026-02-02", "2026-02-06", []int{0})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("invalid dates", func(t *testing.T) {
		_, err := Range("19/02/2026", "2026-02-20", []int{1})
		assert.Error(t, err)
		_, err = Range("2026-02-02", "bogus", []int{1})
		assert.Error(t, err)
	})
}
