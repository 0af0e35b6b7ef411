package schedule

import (
	"time"

	"github.com/klrn-data/schedcheck/pkg/errors"
)

// Resolved is one raw listing's clock reading resolved into an absolute
// calendar date and 24-hour time.
type Resolved struct {
	Date  time.Time
	Start Clock
}

// Resolver resolves bare 12-hour clock readings into absolute dates and
// times. Grid exports print "1:30" for both 01:30 and 13:30; the only signal
// is the ordering of the rows themselves. The resolver walks the rows once,
// in broadcast order, tracking which half of the day it is in: a reading
// that goes backward, or one that lands on 12, marks a crossing into the
// other half, and a PM-to-AM crossing starts a new calendar day.
//
// The state lives for exactly one pass and is never persisted.
type Resolver struct {
	isAM    bool
	current time.Time
	last    Clock
	started bool
}

// NewResolver returns a resolver ready for one pass. The first row observed
// seeds the anchor date and the last-seen reading.
func NewResolver() *Resolver {
	return &Resolver{isAM: true}
}

// ResolveTimes resolves an ordered sequence of raw listings in one pass,
// returning one (date, time) pair per listing. Each listing's Date field is
// its nominal column date, assumed constant for an entire grid column; it
// anchors the first row and backstops the consistency check.
//
// The pass aborts with a DesyncError when the tracked date drifts more than
// one day past a row's nominal date. That means the heuristic lost the
// thread, and emitting unverified rows would poison downstream
// reconciliation, so nothing is returned.
func ResolveTimes(listings []RawListing) ([]Resolved, error) {
	r := NewResolver()
	out := make([]Resolved, 0, len(listings))
	for i, listing := range listings {
		resolved, err := r.next(i, listing)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// next advances the state machine by one row and emits its resolved time.
func (r *Resolver) next(row int, listing RawListing) (Resolved, error) {
	if !r.started {
		r.current = Date(listing.Date)
		r.last = listing.Clock
		r.started = true
	}

	// The tracked date may never get more than one day ahead of the row's
	// own column date. Fail loud: no recovery is attempted.
	nominal := Date(listing.Date)
	if r.current.After(nominal.AddDate(0, 0, 1)) {
		return Resolved{}, &errors.DesyncError{
			Row:     row,
			Current: r.current,
			Nominal: nominal,
			IsAM:    r.isAM,
		}
	}

	clock := listing.Clock

	// A reading below the previous one means the 12-hour clock wrapped.
	// Landing on 12 marks the noon or midnight boundary, unless the
	// previous reading was already 12 (repeated 12:xx rows are the same
	// half-day, not another crossing).
	if (clock.Before(r.last) || clock.Hour == 12) && r.last.Hour != 12 {
		r.isAM = !r.isAM
		if r.isAM {
			// PM back to AM: a new broadcast day.
			r.current = r.current.AddDate(0, 0, 1)
		}
	}

	corrected := clock
	if r.isAM && clock.Hour == 12 {
		// 12:xx after midnight is really 00:xx.
		corrected = clock.AddHours(-12)
	} else if !r.isAM && clock.Hour < 12 {
		// Afternoon readings below 12 belong to the 13:00-23:59 range.
		corrected = clock.AddHours(12)
	}

	// The next comparison is against the raw reading, not the corrected one.
	r.last = clock

	return Resolved{Date: r.current, Start: corrected}, nil
}
