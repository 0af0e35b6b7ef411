// Package reconcile joins two canonical schedules on (channel, date, start
// time) and flags rows whose program or episode fields disagree. The join is
// a full outer join restricted to the time window both schedules cover, so a
// report only ever says "these sources disagree", never "one source covers
// more days than the other".
package reconcile

import (
	"sort"
	"strings"
	"time"

	"github.com/klrn-data/schedcheck/pkg/schedule"
)

// Key is the composite join key shared by both sides.
type Key struct {
	Channel string
	Date    time.Time
	Start   schedule.Clock
}

// At combines the key's date and start time into an absolute timestamp.
func (k Key) At() time.Time {
	return k.Date.Add(time.Duration(k.Start.Seconds()) * time.Second)
}

// Row is one joined row. Ref or Comp is nil when that side had no entry for
// the key; such rows still appear, carrying only the side that exists.
type Row struct {
	Key
	Ref      *schedule.Entry
	Comp     *schedule.Entry
	Mismatch bool
}

// Window is the date/time range covered by both schedules.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the timestamp falls within the window, inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Empty reports whether the window covers no time at all.
func (w Window) Empty() bool {
	return w.Start.IsZero() || w.End.Before(w.Start)
}

// Report is the outcome of reconciling two schedules. Mismatches is always
// derived from Rows, never computed separately.
type Report struct {
	Channel string
	RefTag  string
	CompTag string
	Window  Window
	Rows    []Row
}

// Mismatches returns only the rows flagged as mismatched.
func (r *Report) Mismatches() []Row {
	var out []Row
	for _, row := range r.Rows {
		if row.Mismatch {
			out = append(out, row)
		}
	}
	return out
}

// Schedules reconciles a reference schedule against a comparison schedule.
// Both sides are filtered to the target channel, joined with full outer
// semantics on (channel, date, start time), restricted to the overlapping
// window, and ordered chronologically.
func Schedules(ref, comp schedule.Schedule, opts ...Option) *Report {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	report := &Report{
		Channel: o.channel,
		RefTag:  o.refTag,
		CompTag: o.compTag,
	}

	ref = ref.FilterChannel(o.channel)
	comp = comp.FilterChannel(o.channel)
	if len(ref) == 0 || len(comp) == 0 {
		return report
	}

	report.Window = overlap(ref, comp, o)
	if report.Window.Empty() {
		return report
	}

	refByKey, keys := index(ref, nil)
	compByKey, keys := index(comp, keys)

	var rows []Row
	for _, key := range keys {
		if !report.Window.Contains(key.At()) {
			continue
		}
		rows = append(rows, join(key, refByKey[key], compByKey[key])...)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].At().Before(rows[j].At())
	})
	report.Rows = rows
	return report
}

// overlap computes the shared time window, tightened (never widened) by any
// caller-supplied bounds.
func overlap(ref, comp schedule.Schedule, o *options) Window {
	refW := span(ref)
	compW := span(comp)

	w := Window{Start: refW.Start, End: refW.End}
	if compW.Start.After(w.Start) {
		w.Start = compW.Start
	}
	if compW.End.Before(w.End) {
		w.End = compW.End
	}
	if !o.start.IsZero() && o.start.After(w.Start) {
		w.Start = o.start
	}
	if !o.end.IsZero() && o.end.Before(w.End) {
		w.End = o.end
	}
	return w
}

// span returns the first and last timestamps of a schedule.
func span(s schedule.Schedule) Window {
	w := Window{Start: s[0].At(), End: s[0].At()}
	for _, e := range s[1:] {
		at := e.At()
		if at.Before(w.Start) {
			w.Start = at
		}
		if at.After(w.End) {
			w.End = at
		}
	}
	return w
}

// index groups entries by join key, appending newly seen keys to the given
// key order so the union of both sides comes out deterministic.
func index(s schedule.Schedule, keys []Key) (map[Key][]*schedule.Entry, []Key) {
	byKey := make(map[Key][]*schedule.Entry, len(s))
	for i := range s {
		e := &s[i]
		key := Key{Channel: e.Channel, Date: e.Date, Start: e.Start}
		byKey[key] = append(byKey[key], e)
	}
	for key := range byKey {
		if !containsKey(keys, key) {
			keys = append(keys, key)
		}
	}
	return byKey, keys
}

func containsKey(keys []Key, key Key) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// join pairs the two sides of one key. Duplicate keys on both sides pair
// every combination, matching relational outer-join semantics; a side with
// no entry yields rows with that side nil.
func join(key Key, refs, comps []*schedule.Entry) []Row {
	var rows []Row
	switch {
	case len(refs) == 0:
		for _, c := range comps {
			rows = append(rows, verdict(Row{Key: key, Comp: c}))
		}
	case len(comps) == 0:
		for _, r := range refs {
			rows = append(rows, verdict(Row{Key: key, Ref: r}))
		}
	default:
		for _, r := range refs {
			for _, c := range comps {
				rows = append(rows, verdict(Row{Key: key, Ref: r, Comp: c}))
			}
		}
	}
	return rows
}

// verdict computes the row's mismatch flag. Program names compare
// case-insensitively; the two episode identifier fields only count when both
// sides carry a value. A missing side means the names trivially differ, so
// one-sided rows surface as mismatches.
func verdict(row Row) Row {
	var refName, compName string
	if row.Ref != nil {
		refName = row.Ref.Name
	}
	if row.Comp != nil {
		compName = row.Comp.Name
	}
	if !strings.EqualFold(refName, compName) {
		row.Mismatch = true
	}

	if row.Ref != nil && row.Comp != nil {
		if bothDiffer(row.Ref.NolaEpisode, row.Comp.NolaEpisode) ||
			bothDiffer(row.Ref.EpisodeNumber, row.Comp.EpisodeNumber) {
			row.Mismatch = true
		}
	}
	return row
}

// bothDiffer reports whether two optional values are both present and unequal.
func bothDiffer(a, b string) bool {
	return a != "" && b != "" && a != b
}
