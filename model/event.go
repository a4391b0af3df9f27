package model

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
)

// Visibility governs who may see an event. It is stored as a string column,
// rows created before the column existed hold an empty value.
type Visibility string

const (
	VisibilityPublic      Visibility = "public"
	VisibilityFriendsOnly Visibility = "friendsOnly"
	VisibilityPrivate     Visibility = "private"
)

// Normalize maps the stored value onto the closed set of policies. Empty and
// unrecognized values are public.
func (v Visibility) Normalize() Visibility {
	switch Visibility(strings.TrimSpace(string(v))) {
	case VisibilityFriendsOnly:
		return VisibilityFriendsOnly
	case VisibilityPrivate:
		return VisibilityPrivate
	default:
		return VisibilityPublic
	}
}

// IsKnown reports whether v is one of the three policies verbatim.
func (v Visibility) IsKnown() bool {
	switch v {
	case VisibilityPublic, VisibilityFriendsOnly, VisibilityPrivate:
		return true
	}
	return false
}

/*

Event is a gathering created by a user

Id: primary key, use to identify an event
CreatedAt: time when entity is created
UpdatedAt: time when entity is updated
CreatorID: user who created the event, the only one allowed to mutate or delete it

Visibility: audience policy, see Visibility
Date: calendar date as entered, for example "2024-05-01"
Time: wall clock time as entered, for example "18:30", empty for all-day events
Title: event's display title
CoverImage: url of the cover image

*/
type Event struct {
	Id         string     `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time  `gorm:"<-:create" json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	CreatorID  string     `gorm:"index" json:"creatorId"`
	Visibility Visibility `gorm:"type:varchar(20)" json:"visibility"`
	Date       string     `json:"date"`
	Time       string     `json:"time"`
	Title      string     `json:"title"`
	CoverImage string     `json:"coverImage"`
}

// StartsAt combines Date and Time into an instant in loc. A missing Time
// means the event starts at midnight.
func (e *Event) StartsAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	raw := strings.TrimSpace(strings.TrimSpace(e.Date) + " " + strings.TrimSpace(e.Time))
	if strings.TrimSpace(e.Date) == "" {
		return time.Time{}, errors.Errorf("event %s has no date", e.Id)
	}
	t, err := dateparse.ParseIn(raw, loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "cannot parse start of event %s from %q", e.Id, raw)
	}
	return t, nil
}
