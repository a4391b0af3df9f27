package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibilityNormalize(t *testing.T) {
	assert.Equal(t, VisibilityPublic, Visibility("").Normalize())
	assert.Equal(t, VisibilityPublic, Visibility("public").Normalize())
	assert.Equal(t, VisibilityFriendsOnly, Visibility("friendsOnly").Normalize())
	assert.Equal(t, VisibilityFriendsOnly, Visibility(" friendsOnly ").Normalize())
	assert.Equal(t, VisibilityPrivate, Visibility("private").Normalize())
	assert.Equal(t, VisibilityPublic, Visibility("secret").Normalize())
	assert.Equal(t, VisibilityPublic, Visibility("PRIVATE").Normalize())

	assert.True(t, VisibilityPrivate.IsKnown())
	assert.False(t, Visibility("").IsKnown())
}

func TestEventStartsAt(t *testing.T) {
	e := &Event{Id: "e1", Date: "2024-05-01", Time: "18:30"}
	start, err := e.StartsAt(time.UTC)
	require.Nil(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC), start)

	allDay := &Event{Id: "e2", Date: "2024-05-01"}
	start, err = allDay.StartsAt(time.UTC)
	require.Nil(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), start)

	_, err = (&Event{Id: "e3"}).StartsAt(time.UTC)
	assert.NotNil(t, err)

	_, err = (&Event{Id: "e4", Date: "not a date"}).StartsAt(time.UTC)
	assert.NotNil(t, err)
}

func TestSameUser(t *testing.T) {
	assert.True(t, SameUser("u1", "u1"))
	assert.True(t, SameUser(" u1", "u1 "))
	assert.False(t, SameUser("u1", "u10"))
	assert.False(t, SameUser("", ""))
}

func TestNotificationReferences(t *testing.T) {
	item := &NotificationItem{ReferencedUserIds: []string{"u1", "u22"}}
	assert.True(t, item.References("u22"))
	assert.False(t, item.References("u2"))
	assert.False(t, item.References(""))
}

func TestInvitationGrantsAccess(t *testing.T) {
	assert.True(t, (&Invitation{Status: InvitationStatusPending}).GrantsAccess())
	assert.True(t, (&Invitation{Status: InvitationStatusAccepted}).GrantsAccess())
	assert.False(t, (&Invitation{Status: InvitationStatusDeclined}).GrantsAccess())
}
