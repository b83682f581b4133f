// Package day maps instants onto calendar days.
//
// Completion, overdue and streak rules only ever look at which calendar day
// something happened on, never at time of day. A Key is that calendar day.
package day

import (
	"fmt"
	"time"
)

// Layout is the text form of a Key.
const Layout = "2006-01-02"

// Key identifies a calendar day. The zero Key means "no date".
type Key struct {
	Year  int
	Month time.Month
	Day   int
}

// Of returns the calendar day of t in t's own location.
func Of(t time.Time) Key {
	y, m, d := t.Date()
	return Key{Year: y, Month: m, Day: d}
}

// Parse reads a Key in YYYY-MM-DD form.
func Parse(s string) (Key, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Key{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return Of(t), nil
}

// MustParse is Parse for literals in tests and defaults.
func MustParse(s string) Key {
	k, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return k
}

// IsZero reports whether k is the "no date" key.
func (k Key) IsZero() bool {
	return k == Key{}
}

// Start returns midnight of k in loc.
func (k Key) Start(loc *time.Location) time.Time {
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, loc)
}

// AddDays moves k by n calendar days. Month and year boundaries are
// normalized the way time.Date does it.
func (k Key) AddDays(n int) Key {
	return Of(time.Date(k.Year, k.Month, k.Day+n, 12, 0, 0, 0, time.UTC))
}

// Prev is the calendar day before k.
func (k Key) Prev() Key {
	return k.AddDays(-1)
}

// Compare returns -1, 0 or +1 as k is before, equal to or after o.
func (k Key) Compare(o Key) int {
	switch {
	case k.Year != o.Year:
		return cmpInt(k.Year, o.Year)
	case k.Month != o.Month:
		return cmpInt(int(k.Month), int(o.Month))
	default:
		return cmpInt(k.Day, o.Day)
	}
}

func (k Key) Before(o Key) bool { return k.Compare(o) < 0 }
func (k Key) After(o Key) bool  { return k.Compare(o) > 0 }

func (k Key) String() string {
	if k.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*k = Key{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
