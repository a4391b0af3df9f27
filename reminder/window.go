// Package reminder decides which lead-time reminders are active for an
// upcoming event. It is a pure function of time; deciding who receives a
// reminder is the caller's job.
package reminder

import (
	"time"
)

// Label identifies a lead-time reminder. Its integer value is the stable
// index used in notification ids.
type Label int

const (
	OneDay Label = iota
	TwoHours
	OneHour
)

// Labels lists every reminder from the widest window to the tightest.
var Labels = []Label{OneDay, TwoHours, OneHour}

// LeadTime is how long before the event the reminder window opens.
func (l Label) LeadTime() time.Duration {
	switch l {
	case OneDay:
		return 24 * time.Hour
	case TwoHours:
		return 2 * time.Hour
	case OneHour:
		return time.Hour
	}
	return 0
}

func (l Label) String() string {
	switch l {
	case OneDay:
		return "oneDay"
	case TwoHours:
		return "twoHours"
	case OneHour:
		return "oneHour"
	}
	return "unknown"
}

// Phrase renders the lead time for notification text.
func (l Label) Phrase() string {
	switch l {
	case OneDay:
		return "24 hours"
	case TwoHours:
		return "2 hours"
	case OneHour:
		return "1 hour"
	}
	return ""
}

// OpensAt is the first instant the reminder is active.
func (l Label) OpensAt(eventAt time.Time) time.Time {
	return eventAt.Add(-l.LeadTime())
}

// IsActive reports whether now falls in [eventAt - lead, eventAt).
func (l Label) IsActive(eventAt time.Time, now time.Time) bool {
	return !now.Before(l.OpensAt(eventAt)) && now.Before(eventAt)
}

// ActiveReminders returns every label whose window contains now, widest
// first. The windows are nested, so as the event approaches more labels
// become active at once; all of them are returned.
func ActiveReminders(eventAt time.Time, now time.Time) []Label {
	active := []Label{}
	if !now.Before(eventAt) {
		return active
	}
	for _, l := range Labels {
		if l.IsActive(eventAt, now) {
			active = append(active, l)
		}
	}
	return active
}
