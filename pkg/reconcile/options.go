package reconcile

import "time"

// DefaultChannel is the channel reconciled when none is specified.
const DefaultChannel = "9.1"

type options struct {
	channel string
	refTag  string
	compTag string
	start   time.Time
	end     time.Time
}

func defaultOptions() *options {
	return &options{
		channel: DefaultChannel,
		refTag:  "reference",
		compTag: "comparison",
	}
}

// Option configures a reconciliation run.
type Option func(*options)

// WithChannel sets the target channel to reconcile.
func WithChannel(channel string) Option {
	return func(o *options) {
		if channel != "" {
			o.channel = channel
		}
	}
}

// WithTags sets the source tags used to label each side's fields in the
// report. Tags affect labeling only, never which rows mismatch.
func WithTags(ref, comp string) Option {
	return func(o *options) {
		if ref != "" {
			o.refTag = ref
		}
		if comp != "" {
			o.compTag = comp
		}
	}
}

// WithStart narrows the reconciliation window's start. A zero time is
// ignored, and a bound outside the schedules' natural overlap cannot widen
// the window.
func WithStart(t time.Time) Option {
	return func(o *options) {
		o.start = t
	}
}

// WithEnd narrows the reconciliation window's end, inclusively. A zero time
// is ignored.
func WithEnd(t time.Time) Option {
	return func(o *options) {
		o.end = t
	}
}
