// Package relationship answers the read-only questions the access evaluator
// and the notification feed ask about users and events: who is friends with
// whom, who attends or is invited to what, and which events a user hosts.
//
// Nothing in this package caches unless it is wrapped in a CachedProvider.
// Callers batching over many events should use the set lookups
// (FriendIdsOf, AttendingEventIdsOf, InvitedEventIdsOf) once per batch
// instead of the single-fact lookups once per event.
package relationship

import (
	"context"

	"github.com/Luismorlan/eventmux/model"
)

// Provider answers friendship, attendance and invitation questions.
type Provider interface {
	// FriendIdsOf returns the accepted friends of userId, both relationship
	// directions collapsed into one set.
	FriendIdsOf(ctx context.Context, userId string) (map[string]bool, error)
	// AttendingEventIdsOf returns ids of events userId has an attendance row for.
	AttendingEventIdsOf(ctx context.Context, userId string) (map[string]bool, error)
	// InvitedEventIdsOf returns ids of events userId holds a pending or
	// accepted invitation for.
	InvitedEventIdsOf(ctx context.Context, userId string) (map[string]bool, error)

	IsInvited(ctx context.Context, eventId string, userId string) (bool, error)
	IsAttending(ctx context.Context, eventId string, userId string) (bool, error)
	AreFriends(ctx context.Context, a string, b string) (bool, error)
}

// EventRepository lists the events, attendees and invitations the feed is
// built from.
type EventRepository interface {
	// ListAttendingEvents returns attended events dated on or after fromDate
	// (YYYY-MM-DD), soonest first.
	ListAttendingEvents(ctx context.Context, userId string, fromDate string) ([]*model.Event, error)
	ListHostedEvents(ctx context.Context, userId string) ([]*model.Event, error)
	// ListAttendees returns attendees ordered by join time, oldest first.
	ListAttendees(ctx context.Context, eventId string) ([]*model.Attendee, error)
	ListPendingInvitations(ctx context.Context, userId string) ([]*model.PendingInvitation, error)
}
