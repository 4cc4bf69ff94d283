// Package schedule computes the day grid for a garage bay: which 15-minute
// cells are free, busy, past, or too tight for the requested duration. It is
// pure arithmetic over an appointment snapshot supplied by the caller; it
// never touches the database, the network, or the wall clock.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// DisplayStep is the grid resolution in minutes. Appointments of any
// duration render on this grid; a 45-minute booking spans three cells.
const DisplayStep = 15

// Bay identifies one of the two independent work bays.
type Bay string

const (
	BayA Bay = "A"
	BayB Bay = "B"
)

// ValidBay reports whether s names a known bay.
func ValidBay(s string) bool {
	return s == string(BayA) || s == string(BayB)
}

// Booking is one appointment as the engine sees it: a half-open interval
// [start, start+duration) on a bay's timeline, plus opaque display metadata.
type Booking struct {
	ID          string
	Bay         Bay
	Time        string // "HH:mm", not guaranteed to be step-aligned
	Duration    int    // minutes; non-positive falls back to DisplayStep
	ClientName  string
	ServiceType string
	CarInfo     string
}

// StartMinute returns the booking's start as minutes since midnight.
// Malformed times parse to a defaulted value, never an error.
func (b Booking) StartMinute() int {
	return ParseHHMM(b.Time).Minutes
}

// EffectiveDuration returns the booking's duration, substituting
// DisplayStep when the stored value is absent or non-positive.
func (b Booking) EffectiveDuration() int {
	if b.Duration <= 0 {
		return DisplayStep
	}
	return b.Duration
}

// EndMinute returns the exclusive end of the booking's interval.
func (b Booking) EndMinute() int {
	return b.StartMinute() + b.EffectiveDuration()
}

// ParseResult is the outcome of parsing an "HH:mm" string. A bad record must
// not blank the whole grid, so parsing substitutes zero for anything it
// cannot read and records that it did; callers that care (logging, write
// validation) check Defaulted.
type ParseResult struct {
	Minutes   int
	Defaulted bool
	Reason    string
}

// ParseHHMM parses "HH:mm" into minutes since midnight. A missing minute
// component reads as 0; an unparseable hour reads as 00:00. The substitution
// is reported via ParseResult.Defaulted rather than an error.
func ParseHHMM(s string) ParseResult {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		hour, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return ParseResult{Defaulted: true, Reason: fmt.Sprintf("unparseable time %q", s)}
		}
		return ParseResult{Minutes: hour * 60, Defaulted: true, Reason: fmt.Sprintf("missing minutes in %q", s)}
	}

	hour, errH := strconv.Atoi(strings.TrimSpace(h))
	if errH != nil {
		return ParseResult{Defaulted: true, Reason: fmt.Sprintf("unparseable hour in %q", s)}
	}

	minute, errM := strconv.Atoi(strings.TrimSpace(m))
	if errM != nil {
		return ParseResult{Minutes: hour * 60, Defaulted: true, Reason: fmt.Sprintf("unparseable minutes in %q", s)}
	}

	return ParseResult{Minutes: hour*60 + minute}
}

// ToMinutes is the lenient shorthand used on the read path.
func ToMinutes(hhmm string) int {
	return ParseHHMM(hhmm).Minutes
}

// FormatMinutes renders minutes since midnight as "HH:mm".
func FormatMinutes(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Touching endpoints (e1 == s2) do not overlap, so a booking may
// start exactly when the previous one ends.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}
