package relationship

import (
	"context"

	"github.com/Luismorlan/eventmux/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// DBProvider implements Provider and EventRepository on the relational store.
type DBProvider struct {
	DB *gorm.DB
}

func NewDBProvider(db *gorm.DB) *DBProvider {
	return &DBProvider{DB: db}
}

var accessGrantingInvitationStatuses = []model.InvitationStatus{
	model.InvitationStatusPending,
	model.InvitationStatusAccepted,
}

func (p *DBProvider) FriendIdsOf(ctx context.Context, userId string) (map[string]bool, error) {
	var rows []model.Friendship
	err := p.DB.WithContext(ctx).
		Where("status = ? AND (requester_id = ? OR addressee_id = ?)", model.FriendshipStatusAccepted, userId, userId).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to query friendships of "+userId)
	}

	friends := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row.RequesterID == userId && row.AddresseeID != userId {
			friends[row.AddresseeID] = true
		} else if row.AddresseeID == userId && row.RequesterID != userId {
			friends[row.RequesterID] = true
		}
	}
	return friends, nil
}

func (p *DBProvider) AttendingEventIdsOf(ctx context.Context, userId string) (map[string]bool, error) {
	var ids []string
	err := p.DB.WithContext(ctx).Model(&model.Attendance{}).
		Where("user_id = ?", userId).
		Pluck("event_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to query attendances of "+userId)
	}
	return toSet(ids), nil
}

func (p *DBProvider) InvitedEventIdsOf(ctx context.Context, userId string) (map[string]bool, error) {
	var ids []string
	err := p.DB.WithContext(ctx).Model(&model.Invitation{}).
		Where("invitee_id = ? AND status IN ?", userId, accessGrantingInvitationStatuses).
		Pluck("event_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to query invitations of "+userId)
	}
	return toSet(ids), nil
}

func (p *DBProvider) IsInvited(ctx context.Context, eventId string, userId string) (bool, error) {
	var count int64
	err := p.DB.WithContext(ctx).Model(&model.Invitation{}).
		Where("event_id = ? AND invitee_id = ? AND status IN ?", eventId, userId, accessGrantingInvitationStatuses).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "fail to query invitation")
	}
	return count > 0, nil
}

func (p *DBProvider) IsAttending(ctx context.Context, eventId string, userId string) (bool, error) {
	var count int64
	err := p.DB.WithContext(ctx).Model(&model.Attendance{}).
		Where("event_id = ? AND user_id = ?", eventId, userId).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "fail to query attendance")
	}
	return count > 0, nil
}

func (p *DBProvider) AreFriends(ctx context.Context, a string, b string) (bool, error) {
	var count int64
	err := p.DB.WithContext(ctx).Model(&model.Friendship{}).
		Where("status = ? AND ((requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?))",
			model.FriendshipStatusAccepted, a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "fail to query friendship")
	}
	return count > 0, nil
}

func (p *DBProvider) ListAttendingEvents(ctx context.Context, userId string, fromDate string) ([]*model.Event, error) {
	var events []*model.Event
	attending := p.DB.Model(&model.Attendance{}).Select("event_id").Where("user_id = ?", userId)
	err := p.DB.WithContext(ctx).
		Where("id IN (?) AND date >= ?", attending, fromDate).
		Order("date, time, id").
		Find(&events).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to list attending events of "+userId)
	}
	return events, nil
}

func (p *DBProvider) ListHostedEvents(ctx context.Context, userId string) ([]*model.Event, error) {
	var events []*model.Event
	err := p.DB.WithContext(ctx).
		Where("creator_id = ?", userId).
		Order("date, time, id").
		Find(&events).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to list hosted events of "+userId)
	}
	return events, nil
}

func (p *DBProvider) ListAttendees(ctx context.Context, eventId string) ([]*model.Attendee, error) {
	var attendees []*model.Attendee
	err := p.DB.WithContext(ctx).Table("attendances").
		Select(`attendances.user_id AS user_id,
			users.username AS username,
			users.display_name AS display_name,
			COALESCE(NULLIF(attendances.avatar_url, ''), users.avatar_url) AS avatar_url,
			attendances.created_at AS created_at`).
		Joins("LEFT JOIN users ON users.id = attendances.user_id").
		Where("attendances.event_id = ?", eventId).
		Order("attendances.created_at ASC, attendances.user_id ASC").
		Scan(&attendees).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to list attendees of event "+eventId)
	}
	return attendees, nil
}

func (p *DBProvider) ListPendingInvitations(ctx context.Context, userId string) ([]*model.PendingInvitation, error) {
	var invitations []*model.PendingInvitation
	err := p.DB.WithContext(ctx).Table("invitations").
		Select(`invitations.id AS invitation_id,
			events.id AS event_id,
			events.title AS event_title,
			events.date AS event_date,
			events.time AS event_time,
			events.cover_image AS event_cover_image,
			invitations.inviter_id AS inviter_id,
			users.username AS inviter_username,
			users.avatar_url AS inviter_avatar_url,
			invitations.created_at AS created_at`).
		Joins("JOIN events ON events.id = invitations.event_id").
		Joins("LEFT JOIN users ON users.id = invitations.inviter_id").
		Where("invitations.invitee_id = ? AND invitations.status = ?", userId, model.InvitationStatusPending).
		Order("invitations.created_at DESC, invitations.id ASC").
		Scan(&invitations).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to list pending invitations of "+userId)
	}
	return invitations, nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
