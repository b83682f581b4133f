package day

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf_IgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("test", -5*3600)
	morning := time.Date(2026, 3, 10, 0, 0, 1, 0, loc)
	night := time.Date(2026, 3, 10, 23, 59, 59, 0, loc)

	assert.Equal(t, Of(morning), Of(night))
	assert.Equal(t, Key{2026, time.March, 10}, Of(morning))
}

func TestNormalizer_UsesConfiguredLocation(t *testing.T) {
	east := time.FixedZone("east", 9*3600)
	n := NewNormalizer(east)

	// 20:00 UTC on the 10th is already the 11th at +09:00.
	ts := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, MustParse("2026-03-11"), n.Key(ts))
	assert.Equal(t, MustParse("2026-03-10"), NewNormalizer(time.UTC).Key(ts))
}

func TestNormalizer_SameDayIffSameKey(t *testing.T) {
	n := NewNormalizer(time.UTC)
	a := time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC)
	b := a.Add(2 * time.Hour)

	assert.NotEqual(t, n.Key(a), n.Key(b))
	assert.Equal(t, n.Key(a), n.Key(a.Add(30*time.Minute)))
}

func TestKey_AddDaysCrossesBoundaries(t *testing.T) {
	tests := []struct {
		from string
		n    int
		want string
	}{
		{"2026-01-01", -1, "2025-12-31"},
		{"2024-02-28", 1, "2024-02-29"},
		{"2025-02-28", 1, "2025-03-01"},
		{"2026-03-31", 1, "2026-04-01"},
		{"2026-06-15", -365, "2025-06-15"},
	}

	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.from).AddDays(tt.n).String())
		})
	}
}

func TestKey_Compare(t *testing.T) {
	a := MustParse("2026-05-01")
	b := MustParse("2026-05-02")
	c := MustParse("2027-01-01")

	assert.True(t, a.Before(b))
	assert.True(t, c.After(b))
	assert.Equal(t, 0, a.Compare(MustParse("2026-05-01")))
	assert.Equal(t, a, b.Prev())
}

func TestKey_TextRoundTrip(t *testing.T) {
	k := MustParse("2026-10-17")
	b, err := k.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2026-10-17", string(b))

	var got Key
	require.NoError(t, got.UnmarshalText(b))
	assert.Equal(t, k, got)

	require.NoError(t, got.UnmarshalText(nil))
	assert.True(t, got.IsZero())
	assert.Equal(t, "", got.String())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("17/10/2026")
	assert.Error(t, err)
}

func TestNormalizer_ParseDate(t *testing.T) {
	loc := time.FixedZone("test", 2*3600)
	n := NewNormalizer(loc)

	ts, err := n.ParseDate("2026-10-17")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, loc), ts)
	assert.Equal(t, MustParse("2026-10-17"), n.Key(ts))
}
