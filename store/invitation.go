package store

import (
	"context"
	"strings"

	"github.com/Luismorlan/eventmux/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// InviteUser lets the creator of an event invite another user. A user can be
// invited to the same event only once.
func (s *Store) InviteUser(ctx context.Context, actorId string, eventId string, inviteeId string) (*model.Invitation, error) {
	inviteeId = strings.TrimSpace(inviteeId)
	if inviteeId == "" {
		return nil, errors.Wrap(ErrInvalidInput, "invitee id is required")
	}

	var invitation *model.Invitation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := ownedEvent(tx, eventId, actorId)
		if err != nil {
			return err
		}
		if model.SameUser(event.CreatorID, inviteeId) {
			return errors.Wrap(ErrInvalidInput, "cannot invite the creator to their own event")
		}
		var invitee model.User
		if err := first(tx.Where("id = ?", inviteeId), &invitee, "user "+inviteeId); err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&model.Invitation{}).
			Where("event_id = ? AND invitee_id = ?", eventId, inviteeId).
			Count(&existing).Error; err != nil {
			return errors.Wrap(err, "fail to query invitations")
		}
		if existing > 0 {
			return errors.Wrapf(ErrConflict, "user %s is already invited to event %s", inviteeId, eventId)
		}

		now := s.now()
		invitation = &model.Invitation{
			Id:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
			EventID:   eventId,
			InviterID: event.CreatorID,
			InviteeID: inviteeId,
			Status:    model.InvitationStatusPending,
		}
		return errors.Wrap(tx.Create(invitation).Error, "fail to create invitation")
	})
	if err != nil {
		return nil, err
	}
	return invitation, nil
}

// RespondInvitation accepts or declines a pending invitation on behalf of
// its invitee. Accepting also records the attendance.
func (s *Store) RespondInvitation(ctx context.Context, actorId string, invitationId string, accept bool) (*model.Invitation, error) {
	var invitation model.Invitation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx.Where("id = ?", invitationId), &invitation, "invitation "+invitationId); err != nil {
			return err
		}
		if !model.SameUser(invitation.InviteeID, actorId) {
			return errors.Wrapf(ErrForbidden, "user %s is not the invitee of %s", actorId, invitationId)
		}
		if invitation.Status != model.InvitationStatusPending {
			return errors.Wrapf(ErrConflict, "invitation %s is already %s", invitationId, invitation.Status)
		}

		invitation.Status = model.InvitationStatusDeclined
		if accept {
			invitation.Status = model.InvitationStatusAccepted
		}
		invitation.UpdatedAt = s.now()
		if err := tx.Model(&invitation).Select("status", "updated_at").Updates(&invitation).Error; err != nil {
			return errors.Wrap(err, "fail to update invitation")
		}
		if accept {
			return s.attend(tx, invitation.EventID, invitation.InviteeID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}
