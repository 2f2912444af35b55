// Package timefmt converts the lab service's ISO-8601 timestamps into local
// instants and renders them for people.
package timefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone lookups must not depend on the host's zoneinfo
)

// HumanLayout renders e.g. "Fri 1/1 10:0 AM". Month, day, hour and minute are unpadded.
const HumanLayout = "Mon 1/2 3:4 PM"

// ErrInvalidTimestamp is returned when a timestamp matches none of the accepted layouts.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Zone-less layouts are interpreted as UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RealClock is the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// Normalizer localizes and formats timestamps in a single configured zone.
type Normalizer struct {
	loc   *time.Location
	clock Clock
}

// LoadLocation resolves an IANA zone name. An empty name is rejected rather
// than silently meaning UTC.
func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("timezone cannot be empty")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// New returns a Normalizer for the named zone using the wall clock.
func New(zone string) (*Normalizer, error) {
	loc, err := LoadLocation(zone)
	if err != nil {
		return nil, err
	}
	return NewWithClock(loc, RealClock{}), nil
}

// NewWithClock returns a Normalizer for loc that reads "now" from clock.
func NewWithClock(loc *time.Location, clock Clock) *Normalizer {
	if clock == nil {
		clock = RealClock{}
	}
	return &Normalizer{loc: loc, clock: clock}
}

// Location returns the configured zone.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Now returns the clock's current time in the configured zone.
func (n *Normalizer) Now() time.Time {
	return n.clock.Now().In(n.loc)
}

// Localize parses an ISO-8601 timestamp and returns the same instant in the configured zone.
func (n *Normalizer) Localize(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(n.loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// FormatHuman renders t in the configured zone using HumanLayout.
func (n *Normalizer) FormatHuman(t time.Time) string {
	return t.In(n.loc).Format(HumanLayout)
}

// Since describes how long ago before was, relative to the clock.
func (n *Normalizer) Since(before time.Time) string {
	return Elapsed(before, n.clock.Now())
}

// Elapsed describes before relative to after at hour granularity, truncating
// partial hours: "an hour ago", "5 hours ago", "in 2 hours". An instant equal
// to after reads as "in 0 hours".
func Elapsed(before, after time.Time) string {
	delta := before.Sub(after)
	hours := WholeHours(after, before)
	if hours < 0 {
		hours = -hours
	}

	var span string
	if hours == 1 {
		span = "an hour"
	} else {
		span = fmt.Sprintf("%d hours", hours)
	}

	if delta < 0 {
		return span + " ago"
	}
	return "in " + span
}

// WholeHours returns the number of whole hours from from to to, truncated toward zero.
func WholeHours(from, to time.Time) int {
	return int(to.Sub(from) / time.Hour)
}
