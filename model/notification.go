package model

import (
	"time"
)

type NotificationKind string

const (
	NotificationKindReminder      NotificationKind = "reminder"
	NotificationKindRSVP          NotificationKind = "rsvp"
	NotificationKindRSVPAggregate NotificationKind = "rsvpAggregate"
)

/*

NotificationItem is synthesized for a single feed computation and never stored

Id: deterministic composite key, stable across recomputations
Kind: reminder, rsvp or rsvpAggregate
EventID: event the item is about
Title, Body: rendered text
AvatarUrl: picture shown next to the item
CreatedAt: proxy timestamp used for ordering, see the generators

ReferencedUserIds: every user the item talks about. The feed drops items
referencing the viewer, so self-filtering never has to parse Body.

Items carry no read flag: every item is unread by construction.

*/
type NotificationItem struct {
	Id                string           `json:"id"`
	Kind              NotificationKind `json:"kind"`
	EventID           string           `json:"eventId"`
	Title             string           `json:"title"`
	Body              string           `json:"body"`
	AvatarUrl         string           `json:"avatarUrl"`
	CreatedAt         time.Time        `json:"createdAt"`
	ReferencedUserIds []string         `json:"-"`
}

// References reports whether the item mentions userId.
func (n *NotificationItem) References(userId string) bool {
	for _, id := range n.ReferencedUserIds {
		if SameUser(id, userId) {
			return true
		}
	}
	return false
}

// PendingInvitation is an invitation joined with the summaries the feed
// needs to render it.
type PendingInvitation struct {
	InvitationID     string    `json:"invitationId"`
	EventID          string    `json:"eventId"`
	EventTitle       string    `json:"eventTitle"`
	EventDate        string    `json:"eventDate"`
	EventTime        string    `json:"eventTime"`
	EventCoverImage  string    `json:"eventCoverImage"`
	InviterID        string    `json:"inviterId"`
	InviterUsername  string    `json:"inviterUsername"`
	InviterAvatarUrl string    `json:"inviterAvatarUrl"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Attendee is an attendance row joined with the attending user.
// CreatedAt is nil for legacy rows without a timestamp.
type Attendee struct {
	UserID      string     `json:"userId"`
	Username    string     `json:"username"`
	DisplayName string     `json:"displayName"`
	AvatarUrl   string     `json:"avatarUrl"`
	CreatedAt   *time.Time `json:"createdAt"`
}
