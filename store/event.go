package store

import (
	"context"
	"strings"
	"time"

	"github.com/Luismorlan/eventmux/model"
	"github.com/Luismorlan/eventmux/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	storedDateLayout = "2006-01-02"
	storedTimeLayout = "15:04"
)

type EventInput struct {
	Title      string
	Date       string
	Time       string
	Visibility model.Visibility
	CoverImage string
}

// validate trims and normalizes input in place. An empty visibility becomes
// public, any other unknown value is rejected. An empty time stays empty
// unless the date carried a clock time.
func (input *EventInput) validate() error {
	input.Title = strings.TrimSpace(input.Title)
	input.Date = strings.TrimSpace(input.Date)
	input.Time = strings.TrimSpace(input.Time)
	input.CoverImage = strings.TrimSpace(input.CoverImage)
	input.Visibility = model.Visibility(strings.TrimSpace(string(input.Visibility)))

	if input.Title == "" {
		return errors.Wrap(ErrInvalidInput, "event title is required")
	}
	if input.Visibility == "" {
		input.Visibility = model.VisibilityPublic
	}
	if !input.Visibility.IsKnown() {
		return errors.Wrapf(ErrInvalidInput, "unknown visibility %q", input.Visibility)
	}
	parsed := model.Event{Date: input.Date, Time: input.Time}
	start, err := parsed.StartsAt(time.UTC)
	if err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}
	// stored as YYYY-MM-DD and HH:MM so date columns compare as strings
	input.Date = start.Format(storedDateLayout)
	if input.Time != "" || start.Hour() != 0 || start.Minute() != 0 {
		input.Time = start.Format(storedTimeLayout)
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	if err := first(s.DB.WithContext(ctx).Where("id = ?", id), &event, "event "+id); err != nil {
		return nil, err
	}
	return &event, nil
}

// ListEvents returns every event dated on or after fromDate, soonest first.
// Visibility is not applied here.
func (s *Store) ListEvents(ctx context.Context, fromDate string) ([]*model.Event, error) {
	var events []*model.Event
	err := s.DB.WithContext(ctx).
		Where("date >= ?", fromDate).
		Order("date, time, id").
		Find(&events).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to list events")
	}
	return events, nil
}

func (s *Store) CreateEvent(ctx context.Context, creatorId string, input EventInput) (*model.Event, error) {
	creatorId = strings.TrimSpace(creatorId)
	if creatorId == "" {
		return nil, errors.Wrap(ErrInvalidInput, "creator id is required")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	event := model.Event{
		Id:         uuid.New().String(),
		CreatedAt:  s.now(),
		CreatorID:  creatorId,
		Visibility: input.Visibility,
		Date:       input.Date,
		Time:       input.Time,
		Title:      input.Title,
		CoverImage: input.CoverImage,
	}
	if err := s.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, errors.Wrap(err, "fail to create event")
	}
	return &event, nil
}

// ownedEvent loads the event and checks actorId created it.
func ownedEvent(tx *gorm.DB, eventId string, actorId string) (*model.Event, error) {
	var event model.Event
	if err := first(tx.Where("id = ?", eventId), &event, "event "+eventId); err != nil {
		return nil, err
	}
	if !model.SameUser(event.CreatorID, actorId) {
		return nil, errors.Wrapf(ErrForbidden, "user %s does not own event %s", actorId, eventId)
	}
	return &event, nil
}

// UpdateEvent replaces every editable field of the event.
func (s *Store) UpdateEvent(ctx context.Context, actorId string, eventId string, input EventInput) (*model.Event, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	event, err := ownedEvent(s.DB.WithContext(ctx), eventId, actorId)
	if err != nil {
		return nil, err
	}
	event.Title = input.Title
	event.Date = input.Date
	event.Time = input.Time
	event.Visibility = input.Visibility
	event.CoverImage = input.CoverImage
	err = s.DB.WithContext(ctx).Model(event).
		Select("title", "date", "time", "visibility", "cover_image", "updated_at").
		Updates(event).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to update event "+eventId)
	}
	return event, nil
}

// DeleteEvent removes the event with its attendances and invitations.
func (s *Store) DeleteEvent(ctx context.Context, actorId string, eventId string) error {
	var deleteAll utils.GormTransaction = func(tx *gorm.DB) error {
		if _, err := ownedEvent(tx, eventId, actorId); err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", eventId).Delete(&model.Attendance{}).Error; err != nil {
			return errors.Wrap(err, "fail to delete attendances")
		}
		if err := tx.Where("event_id = ?", eventId).Delete(&model.Invitation{}).Error; err != nil {
			return errors.Wrap(err, "fail to delete invitations")
		}
		if err := tx.Where("id = ?", eventId).Delete(&model.Event{}).Error; err != nil {
			return errors.Wrap(err, "fail to delete event")
		}
		return nil
	}
	return s.DB.WithContext(ctx).Transaction(deleteAll)
}

// RSVP records userId as attending. Repeating it is a no-op. A pending
// invitation of the user to the event is accepted in the same transaction.
func (s *Store) RSVP(ctx context.Context, eventId string, userId string) error {
	userId = strings.TrimSpace(userId)
	if userId == "" {
		return errors.Wrap(ErrInvalidInput, "user id is required")
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event model.Event
		if err := first(tx.Where("id = ?", eventId), &event, "event "+eventId); err != nil {
			return err
		}
		if err := s.attend(tx, eventId, userId); err != nil {
			return err
		}
		err := tx.Model(&model.Invitation{}).
			Where("event_id = ? AND invitee_id = ? AND status = ?", eventId, userId, model.InvitationStatusPending).
			Updates(map[string]interface{}{"status": model.InvitationStatusAccepted, "updated_at": s.now()}).Error
		return errors.Wrap(err, "fail to accept pending invitation")
	})
}

// attend inserts the attendance row, snapshotting the user's avatar.
func (s *Store) attend(tx *gorm.DB, eventId string, userId string) error {
	var user model.User
	if err := tx.Where("id = ?", userId).Limit(1).Find(&user).Error; err != nil {
		return errors.Wrap(err, "fail to query user "+userId)
	}
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Attendance{
		EventID:   eventId,
		UserID:    userId,
		AvatarUrl: user.AvatarUrl,
		CreatedAt: s.now(),
	}).Error
	return errors.Wrap(err, "fail to create attendance")
}

// CancelRSVP removes the attendance row if there is one.
func (s *Store) CancelRSVP(ctx context.Context, eventId string, userId string) error {
	err := s.DB.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventId, userId).
		Delete(&model.Attendance{}).Error
	return errors.Wrap(err, "fail to cancel rsvp")
}
