package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/Luismorlan/eventmux/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	TestDateLayout = "2006-01-02"
	TestTimeLayout = "15:04"
)

// create user with id, username is derived from the id
func TestCreateUser(t *testing.T, db *gorm.DB, id string, displayName string) *model.User {
	t.Helper()
	user := &model.User{
		Id:          id,
		Username:    "user_" + id,
		DisplayName: displayName,
		AvatarUrl:   fmt.Sprintf("https://avatars.example.com/%s.png", id),
	}
	require.Nil(t, db.Create(user).Error)
	return user
}

// create event starting at startsAt (UTC, minute precision)
func TestCreateEvent(t *testing.T, db *gorm.DB, id string, creatorId string, visibility model.Visibility, startsAt time.Time) *model.Event {
	t.Helper()
	startsAt = startsAt.UTC()
	event := &model.Event{
		Id:         id,
		CreatorID:  creatorId,
		Visibility: visibility,
		Date:       startsAt.Format(TestDateLayout),
		Time:       startsAt.Format(TestTimeLayout),
		Title:      "title of " + id,
	}
	require.Nil(t, db.Create(event).Error)
	return event
}

// create a directed friendship row
func TestCreateFriendship(t *testing.T, db *gorm.DB, requesterId string, addresseeId string, status model.FriendshipStatus) {
	t.Helper()
	require.Nil(t, db.Create(&model.Friendship{
		RequesterID: requesterId,
		AddresseeID: addresseeId,
		Status:      status,
	}).Error)
}

// create attendance row with explicit RSVP time
func TestCreateAttendance(t *testing.T, db *gorm.DB, eventId string, userId string, createdAt time.Time) {
	t.Helper()
	require.Nil(t, db.Create(&model.Attendance{
		EventID:   eventId,
		UserID:    userId,
		CreatedAt: createdAt,
	}).Error)
}

// create invitation row
func TestCreateInvitation(t *testing.T, db *gorm.DB, id string, eventId string, inviterId string, inviteeId string, status model.InvitationStatus) {
	t.Helper()
	require.Nil(t, db.Create(&model.Invitation{
		Id:        id,
		EventID:   eventId,
		InviterID: inviterId,
		InviteeID: inviteeId,
		Status:    status,
	}).Error)
}
