package server

import (
	"time"

	"github.com/Luismorlan/eventmux/model"
	"github.com/Luismorlan/eventmux/notification"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

type UserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarUrl   string `json:"avatarUrl"`
}

type EventRequest struct {
	Title      string           `json:"title" binding:"required"`
	Date       string           `json:"date" binding:"required"`
	Time       string           `json:"time"`
	Visibility model.Visibility `json:"visibility"`
	CoverImage string           `json:"coverImage"`
}

type InviteRequest struct {
	InviteeID string `json:"inviteeId" binding:"required"`
}

type FriendRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type RespondRequest struct {
	Accept bool `json:"accept"`
}

type EventResponse struct {
	Id         string           `json:"id"`
	CreatedAt  time.Time        `json:"createdAt"`
	CreatorID  string           `json:"creatorId"`
	Visibility model.Visibility `json:"visibility"`
	Date       string           `json:"date"`
	Time       string           `json:"time"`
	Title      string           `json:"title"`
	CoverImage string           `json:"coverImage"`
}

type NotificationItemResponse struct {
	Id        string                 `json:"id"`
	Kind      model.NotificationKind `json:"kind"`
	EventID   string                 `json:"eventId"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	AvatarUrl string                 `json:"avatarUrl"`
	CreatedAt time.Time              `json:"createdAt"`
}

type FeedResponse struct {
	Items              []NotificationItemResponse `json:"items"`
	PendingInvitations []*model.PendingInvitation `json:"pendingInvitations"`
	UnreadCount        int                        `json:"unreadCount"`
	Partial            bool                       `json:"partial"`
}

// toEventResponse reports visibility as normalized, so legacy rows without
// a value show up as public.
func toEventResponse(event *model.Event) (*EventResponse, error) {
	out := &EventResponse{}
	if err := copier.Copy(out, event); err != nil {
		return nil, errors.Wrap(err, "fail to copy event")
	}
	out.Visibility = event.Visibility.Normalize()
	return out, nil
}

func toEventResponses(events []*model.Event) ([]*EventResponse, error) {
	out := make([]*EventResponse, 0, len(events))
	for _, event := range events {
		dto, err := toEventResponse(event)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

func toFeedResponse(feed *notification.Feed) (*FeedResponse, error) {
	out := &FeedResponse{
		Items:              []NotificationItemResponse{},
		PendingInvitations: feed.PendingInvitations,
		UnreadCount:        feed.UnreadCount(),
		Partial:            feed.Partial,
	}
	if err := copier.Copy(&out.Items, feed.Items); err != nil {
		return nil, errors.Wrap(err, "fail to copy feed items")
	}
	return out, nil
}
