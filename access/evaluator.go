// Package access decides whether a viewer may see an event.
//
// The rules, in order:
//
//   - the creator always sees their own event;
//   - an anonymous viewer (empty id) sees public events only;
//   - public events are visible to everyone;
//   - friendsOnly events are visible to accepted friends of the creator,
//     whichever direction the friendship row was stored in;
//   - private events are visible to users holding a pending or accepted
//     invitation, or an attendance row.
//
// Unknown or missing visibility values count as public. When the relationship
// provider fails, the viewer is treated as unauthorized and the error is
// returned alongside the negative answer.
package access

import (
	"context"
	"strings"

	"github.com/Luismorlan/eventmux/model"
	"github.com/Luismorlan/eventmux/relationship"
	"github.com/pkg/errors"
)

type Evaluator struct {
	Provider relationship.Provider
}

func NewEvaluator(provider relationship.Provider) *Evaluator {
	return &Evaluator{Provider: provider}
}

// needsRelationships reports whether deciding on event for viewerId requires
// a provider lookup, and if so which policy applies.
func needsRelationships(event *model.Event, viewerId string) (model.Visibility, bool) {
	visibility := event.Visibility.Normalize()
	if visibility == model.VisibilityPublic || viewerId == "" || model.SameUser(event.CreatorID, viewerId) {
		return visibility, false
	}
	return visibility, true
}

// CanView reports whether viewerId may see event. An empty viewerId is an
// anonymous viewer.
func (e *Evaluator) CanView(ctx context.Context, event *model.Event, viewerId string) (bool, error) {
	if event == nil {
		return false, nil
	}
	viewerId = strings.TrimSpace(viewerId)
	visibility, needed := needsRelationships(event, viewerId)
	if !needed {
		return visibility == model.VisibilityPublic || viewerId != "", nil
	}

	switch visibility {
	case model.VisibilityFriendsOnly:
		friends, err := e.Provider.AreFriends(ctx, event.CreatorID, viewerId)
		if err != nil {
			return false, errors.Wrap(err, "cannot check friendship for event "+event.Id)
		}
		return friends, nil
	case model.VisibilityPrivate:
		invited, err := e.Provider.IsInvited(ctx, event.Id, viewerId)
		if err != nil {
			return false, errors.Wrap(err, "cannot check invitation for event "+event.Id)
		}
		if invited {
			return true, nil
		}
		attending, err := e.Provider.IsAttending(ctx, event.Id, viewerId)
		if err != nil {
			return false, errors.Wrap(err, "cannot check attendance for event "+event.Id)
		}
		return attending, nil
	}
	return false, nil
}

// FilterVisible returns the events viewerId may see, preserving order.
//
// The viewer's friend set and attending/invited event sets are fetched at
// most once per call, and only if some event needs them. If a fetch fails,
// every event depending on it is left out and the first error is returned
// together with the remaining events.
func (e *Evaluator) FilterVisible(ctx context.Context, events []*model.Event, viewerId string) ([]*model.Event, error) {
	viewerId = strings.TrimSpace(viewerId)
	needFriends, needPrivate := false, false
	for _, event := range events {
		if event == nil {
			continue
		}
		visibility, needed := needsRelationships(event, viewerId)
		if !needed {
			continue
		}
		if visibility == model.VisibilityFriendsOnly {
			needFriends = true
		} else {
			needPrivate = true
		}
	}

	var (
		firstErr  error
		friends   map[string]bool
		attending map[string]bool
		invited   map[string]bool
		err       error
	)
	recordErr := func(err error, msg string) {
		if firstErr == nil {
			firstErr = errors.Wrap(err, msg)
		}
	}

	if needFriends {
		if friends, err = e.Provider.FriendIdsOf(ctx, viewerId); err != nil {
			recordErr(err, "cannot fetch friends of viewer")
			friends = nil
		}
	}
	if needPrivate {
		if attending, err = e.Provider.AttendingEventIdsOf(ctx, viewerId); err != nil {
			recordErr(err, "cannot fetch attended events of viewer")
			attending = nil
		}
		if invited, err = e.Provider.InvitedEventIdsOf(ctx, viewerId); err != nil {
			recordErr(err, "cannot fetch invitations of viewer")
			invited = nil
		}
	}

	visible := []*model.Event{}
	for _, event := range events {
		if event == nil {
			continue
		}
		visibility, needed := needsRelationships(event, viewerId)
		if !needed {
			if visibility == model.VisibilityPublic || viewerId != "" {
				visible = append(visible, event)
			}
			continue
		}
		switch visibility {
		case model.VisibilityFriendsOnly:
			if friends[strings.TrimSpace(event.CreatorID)] {
				visible = append(visible, event)
			}
		case model.VisibilityPrivate:
			if attending[event.Id] || invited[event.Id] {
				visible = append(visible, event)
			}
		}
	}
	return visible, firstErr
}
