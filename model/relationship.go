package model

import (
	"time"
)

type FriendshipStatus string

const (
	FriendshipStatusPending  FriendshipStatus = "pending"
	FriendshipStatusAccepted FriendshipStatus = "accepted"
	FriendshipStatusDeclined FriendshipStatus = "declined"
)

/*

Friendship is an undirected relation stored as one directed row

RequesterID: user who sent the friend request
AddresseeID: user who received it
Status: pending, accepted or declined

The row may exist as (A,B) or (B,A). Two users are friends iff there is an
accepted row in either direction.

*/
type Friendship struct {
	RequesterID string           `gorm:"primaryKey" json:"requesterId"`
	AddresseeID string           `gorm:"primaryKey;index" json:"addresseeId"`
	Status      FriendshipStatus `gorm:"type:varchar(20);index" json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

/*

Attendance is the "many-to-many" relation of users going to events

EventID: event id
UserID: attending user id
AvatarUrl: attendee avatar snapshot taken at RSVP time
CreatedAt: time of the RSVP, orders the most recent attendees

*/
type Attendance struct {
	EventID   string    `gorm:"primaryKey" json:"eventId"`
	UserID    string    `gorm:"primaryKey;index" json:"userId"`
	AvatarUrl string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusDeclined InvitationStatus = "declined"
)

/*

Invitation is a host asking a user to join an event

Id: primary key
EventID: event the invitee is asked to join
InviterID: user who sent the invitation
InviteeID: user who received it
Status: pending, accepted or declined. Accepting also creates the Attendance row.

*/
type Invitation struct {
	Id        string           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	EventID   string           `gorm:"index" json:"eventId"`
	InviterID string           `json:"inviterId"`
	InviteeID string           `gorm:"index" json:"inviteeId"`
	Status    InvitationStatus `gorm:"type:varchar(20)" json:"status"`
}

// GrantsAccess is true for invitations that still let the invitee see a
// private event.
func (i *Invitation) GrantsAccess() bool {
	return i.Status == InvitationStatusPending || i.Status == InvitationStatusAccepted
}
