// Package rsvp turns the attendee list of a hosted event into the RSVP
// notifications its host sees.
package rsvp

import (
	"fmt"
	"strings"
	"time"

	"github.com/Luismorlan/eventmux/model"
)

const (
	// Up to this many attendees get one notification each, beyond it the
	// host gets a single summary item instead.
	MaxIndividualItems = 5

	// Number of most recent attendees named in the summary item.
	namedInSummary = 2

	fallbackFirstName = "User"
)

// IndividualItemId is the id of the notification about userId's RSVP.
func IndividualItemId(eventId string, userId string) string {
	return fmt.Sprintf("%s-rsvp-%s", eventId, userId)
}

// AggregateItemId is the id of the summary notification of an event.
func AggregateItemId(eventId string) string {
	return fmt.Sprintf("%s-rsvp-ig", eventId)
}

// Summarize builds RSVP notifications for event. attendees must be ordered by
// join time, oldest first. now stands in for missing join times.
func Summarize(event *model.Event, attendees []*model.Attendee, now time.Time) []*model.NotificationItem {
	items := []*model.NotificationItem{}
	if len(attendees) == 0 {
		return items
	}

	title := "RSVP: " + event.Title
	if len(attendees) <= MaxIndividualItems {
		for _, a := range attendees {
			items = append(items, &model.NotificationItem{
				Id:                IndividualItemId(event.Id, a.UserID),
				Kind:              model.NotificationKindRSVP,
				EventID:           event.Id,
				Title:             title,
				Body:              fmt.Sprintf("%s has RSVP'ed to your event!", FirstName(a)),
				AvatarUrl:         a.AvatarUrl,
				CreatedAt:         joinedAt(now, a),
				ReferencedUserIds: []string{a.UserID},
			})
		}
		return items
	}

	recent := attendees[len(attendees)-namedInSummary:]
	referenced := make([]string, 0, len(attendees))
	for _, a := range attendees {
		referenced = append(referenced, a.UserID)
	}
	last := recent[len(recent)-1]
	items = append(items, &model.NotificationItem{
		Id:      AggregateItemId(event.Id),
		Kind:    model.NotificationKindRSVPAggregate,
		EventID: event.Id,
		Title:   title,
		Body: fmt.Sprintf("%s, %s and %d others have RSVP'ed to your event!",
			FirstName(recent[0]), FirstName(last), len(attendees)-namedInSummary),
		AvatarUrl:         last.AvatarUrl,
		CreatedAt:         joinedAt(now, recent...),
		ReferencedUserIds: referenced,
	})
	return items
}

// joinedAt returns the first known join time among candidates, now if none.
func joinedAt(now time.Time, candidates ...*model.Attendee) time.Time {
	for _, a := range candidates {
		if a.CreatedAt != nil && !a.CreatedAt.IsZero() {
			return *a.CreatedAt
		}
	}
	return now
}

// FirstName is the first word of the display name, falling back to the
// username and then to "User".
func FirstName(a *model.Attendee) string {
	if fields := strings.Fields(a.DisplayName); len(fields) > 0 {
		return fields[0]
	}
	if username := strings.TrimSpace(a.Username); username != "" {
		return username
	}
	return fallbackFirstName
}
