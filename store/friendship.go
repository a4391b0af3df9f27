package store

import (
	"context"
	"strings"

	"github.com/Luismorlan/eventmux/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SendFriendRequest stores a pending request. Only one row may exist per
// pair of users, whichever of them sent it.
func (s *Store) SendFriendRequest(ctx context.Context, requesterId string, addresseeId string) (*model.Friendship, error) {
	requesterId = strings.TrimSpace(requesterId)
	addresseeId = strings.TrimSpace(addresseeId)
	if requesterId == "" || addresseeId == "" {
		return nil, errors.Wrap(ErrInvalidInput, "both users are required")
	}
	if requesterId == addresseeId {
		return nil, errors.Wrap(ErrInvalidInput, "cannot befriend yourself")
	}

	var friendship *model.Friendship
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var addressee model.User
		if err := first(tx.Where("id = ?", addresseeId), &addressee, "user "+addresseeId); err != nil {
			return err
		}
		var existing int64
		if err := tx.Model(&model.Friendship{}).
			Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
				requesterId, addresseeId, addresseeId, requesterId).
			Count(&existing).Error; err != nil {
			return errors.Wrap(err, "fail to query friendships")
		}
		if existing > 0 {
			return errors.Wrapf(ErrConflict, "friendship between %s and %s exists", requesterId, addresseeId)
		}

		now := s.now()
		friendship = &model.Friendship{
			RequesterID: requesterId,
			AddresseeID: addresseeId,
			Status:      model.FriendshipStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return errors.Wrap(tx.Create(friendship).Error, "fail to create friendship")
	})
	if err != nil {
		return nil, err
	}
	return friendship, nil
}

// RespondFriendRequest lets the addressee accept or decline a pending request
// sent by requesterId.
func (s *Store) RespondFriendRequest(ctx context.Context, actorId string, requesterId string, accept bool) (*model.Friendship, error) {
	var friendship model.Friendship
	query := s.DB.WithContext(ctx).Where("requester_id = ? AND addressee_id = ?", strings.TrimSpace(requesterId), strings.TrimSpace(actorId))
	if err := first(query, &friendship, "friend request from "+requesterId); err != nil {
		return nil, err
	}
	if friendship.Status != model.FriendshipStatusPending {
		return nil, errors.Wrapf(ErrConflict, "friend request from %s is already %s", requesterId, friendship.Status)
	}

	friendship.Status = model.FriendshipStatusDeclined
	if accept {
		friendship.Status = model.FriendshipStatusAccepted
	}
	friendship.UpdatedAt = s.now()
	err := s.DB.WithContext(ctx).Model(&model.Friendship{}).
		Where("requester_id = ? AND addressee_id = ?", friendship.RequesterID, friendship.AddresseeID).
		Updates(map[string]interface{}{"status": friendship.Status, "updated_at": friendship.UpdatedAt}).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to update friendship")
	}
	return &friendship, nil
}
