package access

import (
	"context"
	"errors"
	"testing"

	"github.com/Luismorlan/eventmux/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider answers from in-memory rows and counts every call.
type fakeProvider struct {
	friendships []model.Friendship
	invitations []model.Invitation
	attendances []model.Attendance
	err         error
	calls       map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{calls: map[string]int{}}
}

func (f *fakeProvider) befriend(a string, b string, status model.FriendshipStatus) {
	f.friendships = append(f.friendships, model.Friendship{RequesterID: a, AddresseeID: b, Status: status})
}

func (f *fakeProvider) FriendIdsOf(ctx context.Context, userId string) (map[string]bool, error) {
	f.calls["FriendIdsOf"]++
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]bool{}
	for _, fr := range f.friendships {
		if fr.Status != model.FriendshipStatusAccepted {
			continue
		}
		if fr.RequesterID == userId {
			out[fr.AddresseeID] = true
		} else if fr.AddresseeID == userId {
			out[fr.RequesterID] = true
		}
	}
	return out, nil
}

func (f *fakeProvider) AttendingEventIdsOf(ctx context.Context, userId string) (map[string]bool, error) {
	f.calls["AttendingEventIdsOf"]++
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]bool{}
	for _, a := range f.attendances {
		if a.UserID == userId {
			out[a.EventID] = true
		}
	}
	return out, nil
}

func (f *fakeProvider) InvitedEventIdsOf(ctx context.Context, userId string) (map[string]bool, error) {
	f.calls["InvitedEventIdsOf"]++
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]bool{}
	for i := range f.invitations {
		if f.invitations[i].InviteeID == userId && f.invitations[i].GrantsAccess() {
			out[f.invitations[i].EventID] = true
		}
	}
	return out, nil
}

func (f *fakeProvider) IsInvited(ctx context.Context, eventId string, userId string) (bool, error) {
	f.calls["IsInvited"]++
	set, err := f.InvitedEventIdsOf(ctx, userId)
	return set[eventId], err
}

func (f *fakeProvider) IsAttending(ctx context.Context, eventId string, userId string) (bool, error) {
	f.calls["IsAttending"]++
	set, err := f.AttendingEventIdsOf(ctx, userId)
	return set[eventId], err
}

func (f *fakeProvider) AreFriends(ctx context.Context, a string, b string) (bool, error) {
	f.calls["AreFriends"]++
	set, err := f.FriendIdsOf(ctx, a)
	return set[b], err
}

func event(id string, creator string, visibility model.Visibility) *model.Event {
	return &model.Event{Id: id, CreatorID: creator, Visibility: visibility}
}

func mustCanView(t *testing.T, e *Evaluator, ev *model.Event, viewer string) bool {
	t.Helper()
	ok, err := e.CanView(context.Background(), ev, viewer)
	require.Nil(t, err)
	return ok
}

func TestPublicVisibleToEveryone(t *testing.T) {
	e := NewEvaluator(newFakeProvider())
	for _, v := range []model.Visibility{"public", "", "garbage"} {
		ev := event("e1", "u1", v)
		assert.True(t, mustCanView(t, e, ev, ""), v)
		assert.True(t, mustCanView(t, e, ev, "u1"), v)
		assert.True(t, mustCanView(t, e, ev, "stranger"), v)
	}
}

func TestCreatorAlwaysSeesOwnEvent(t *testing.T) {
	p := newFakeProvider()
	p.err = errors.New("db down")
	e := NewEvaluator(p)
	for _, v := range []model.Visibility{"public", "friendsOnly", "private", "", "???"} {
		assert.True(t, mustCanView(t, e, event("e1", "u1", v), "u1"), v)
		assert.True(t, mustCanView(t, e, event("e1", "u1", v), " u1 "), v)
	}
	assert.Empty(t, p.calls)
}

func TestAnonymousSeesOnlyPublic(t *testing.T) {
	e := NewEvaluator(newFakeProvider())
	assert.False(t, mustCanView(t, e, event("e1", "u1", model.VisibilityFriendsOnly), ""))
	assert.False(t, mustCanView(t, e, event("e1", "u1", model.VisibilityPrivate), "  "))
}

func TestFriendsOnlySymmetry(t *testing.T) {
	p := newFakeProvider()
	p.befriend("A", "B", model.FriendshipStatusAccepted)
	p.befriend("C", "A", model.FriendshipStatusAccepted)
	p.befriend("A", "D", model.FriendshipStatusPending)
	e := NewEvaluator(p)

	assert.True(t, mustCanView(t, e, event("e1", "A", model.VisibilityFriendsOnly), "B"))
	assert.True(t, mustCanView(t, e, event("e2", "B", model.VisibilityFriendsOnly), "A"))
	assert.True(t, mustCanView(t, e, event("e3", "A", model.VisibilityFriendsOnly), "C"))
	assert.True(t, mustCanView(t, e, event("e4", "C", model.VisibilityFriendsOnly), "A"))
	assert.False(t, mustCanView(t, e, event("e5", "A", model.VisibilityFriendsOnly), "D"))
	assert.False(t, mustCanView(t, e, event("e6", "B", model.VisibilityFriendsOnly), "C"))
}

func TestPrivateDoesNotLeakToFriends(t *testing.T) {
	p := newFakeProvider()
	p.befriend("host", "friend", model.FriendshipStatusAccepted)
	p.invitations = []model.Invitation{
		{EventID: "e1", InviteeID: "invited", Status: model.InvitationStatusPending},
		{EventID: "e1", InviteeID: "accepted", Status: model.InvitationStatusAccepted},
		{EventID: "e1", InviteeID: "declined", Status: model.InvitationStatusDeclined},
	}
	p.attendances = []model.Attendance{{EventID: "e1", UserID: "attendee"}}
	e := NewEvaluator(p)
	ev := event("e1", "host", model.VisibilityPrivate)

	assert.False(t, mustCanView(t, e, ev, "friend"))
	assert.False(t, mustCanView(t, e, ev, "declined"))
	assert.True(t, mustCanView(t, e, ev, "invited"))
	assert.True(t, mustCanView(t, e, ev, "accepted"))
	assert.True(t, mustCanView(t, e, ev, "attendee"))
}

func TestCanViewFailsClosed(t *testing.T) {
	p := newFakeProvider()
	p.err = errors.New("db down")
	e := NewEvaluator(p)

	ok, err := e.CanView(context.Background(), event("e1", "u1", model.VisibilityPrivate), "u2")
	assert.False(t, ok)
	assert.NotNil(t, err)

	ok, err = e.CanView(context.Background(), event("e1", "u1", model.VisibilityFriendsOnly), "u2")
	assert.False(t, ok)
	assert.NotNil(t, err)

	// public never touches the provider
	ok, err = e.CanView(context.Background(), event("e1", "u1", model.VisibilityPublic), "u2")
	assert.True(t, ok)
	assert.Nil(t, err)
}

func TestScenarioFriendsOnlyEvent(t *testing.T) {
	p := newFakeProvider()
	p.befriend("U1", "U2", model.FriendshipStatusAccepted)
	e := NewEvaluator(p)
	e1 := event("E1", "U1", model.VisibilityFriendsOnly)

	assert.True(t, mustCanView(t, e, e1, "U2"))
	assert.False(t, mustCanView(t, e, e1, "U3"))
}

func ids(events []*model.Event) []string {
	out := []string{}
	for _, e := range events {
		out = append(out, e.Id)
	}
	return out
}

func TestFilterVisibleBatchesLookups(t *testing.T) {
	p := newFakeProvider()
	p.befriend("friend", "viewer", model.FriendshipStatusAccepted)
	p.invitations = []model.Invitation{{EventID: "p2", InviteeID: "viewer", Status: model.InvitationStatusPending}}
	p.attendances = []model.Attendance{{EventID: "p3", UserID: "viewer"}}
	e := NewEvaluator(p)

	events := []*model.Event{
		event("pub", "x", model.VisibilityPublic),
		event("f1", "friend", model.VisibilityFriendsOnly),
		event("f2", "stranger", model.VisibilityFriendsOnly),
		event("p1", "friend", model.VisibilityPrivate),
		event("p2", "x", model.VisibilityPrivate),
		event("p3", "x", model.VisibilityPrivate),
		event("own", "viewer", model.VisibilityPrivate),
		event("legacy", "x", ""),
		event("f3", "friend", model.VisibilityFriendsOnly),
	}

	visible, err := e.FilterVisible(context.Background(), events, "viewer")
	require.Nil(t, err)
	assert.Equal(t, []string{"pub", "f1", "p2", "p3", "own", "legacy", "f3"}, ids(visible))

	assert.Equal(t, 1, p.calls["FriendIdsOf"])
	assert.Equal(t, 1, p.calls["AttendingEventIdsOf"])
	assert.Equal(t, 1, p.calls["InvitedEventIdsOf"])
	assert.Equal(t, 0, p.calls["AreFriends"])
	assert.Equal(t, 0, p.calls["IsInvited"])
}

func TestFilterVisibleSkipsUnneededLookups(t *testing.T) {
	p := newFakeProvider()
	e := NewEvaluator(p)

	visible, err := e.FilterVisible(context.Background(), []*model.Event{
		event("pub", "x", model.VisibilityPublic),
		event("own", "viewer", model.VisibilityFriendsOnly),
	}, "viewer")
	require.Nil(t, err)
	assert.Equal(t, []string{"pub", "own"}, ids(visible))
	assert.Empty(t, p.calls)

	visible, err = e.FilterVisible(context.Background(), []*model.Event{
		event("pub", "x", model.VisibilityPublic),
		event("f1", "x", model.VisibilityFriendsOnly),
		event("p1", "x", model.VisibilityPrivate),
	}, "")
	require.Nil(t, err)
	assert.Equal(t, []string{"pub"}, ids(visible))
	assert.Empty(t, p.calls)
}

func TestFilterVisibleFailsClosed(t *testing.T) {
	p := newFakeProvider()
	p.err = errors.New("db down")
	e := NewEvaluator(p)

	visible, err := e.FilterVisible(context.Background(), []*model.Event{
		event("pub", "x", model.VisibilityPublic),
		event("f1", "x", model.VisibilityFriendsOnly),
		event("p1", "x", model.VisibilityPrivate),
		event("own", "viewer", model.VisibilityPrivate),
	}, "viewer")
	assert.NotNil(t, err)
	assert.Equal(t, []string{"pub", "own"}, ids(visible))
}
