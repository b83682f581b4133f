package day

import "time"

// Normalizer pins every instant to one location before taking its calendar
// day, so two instants share a Key iff they fall on the same local date.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer returns a Normalizer for loc. A nil loc means time.Local.
func NewNormalizer(loc *time.Location) Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return Normalizer{loc: loc}
}

// Location is the location keys are computed in.
func (n Normalizer) Location() *time.Location {
	if n.loc == nil {
		return time.Local
	}
	return n.loc
}

// Key returns the calendar day of t.
func (n Normalizer) Key(t time.Time) Key {
	return Of(t.In(n.Location()))
}

// Today is Key(now), named for readability at call sites.
func (n Normalizer) Today(now time.Time) Key {
	return n.Key(now)
}

// ParseDate reads a YYYY-MM-DD date as midnight in the normalizer's location.
func (n Normalizer) ParseDate(s string) (time.Time, error) {
	k, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return k.Start(n.Location()), nil
}
