// Package notification builds a viewer's activity feed: reminders for events
// they attend, RSVP activity on events they host, and their pending
// invitations.
//
// The feed is recomputed from scratch on every call and never merged with a
// previous result. Nothing in it is persisted, so every item is unread and
// the unread count is derived, see Feed.UnreadCount.
package notification

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Luismorlan/eventmux/model"
	"github.com/Luismorlan/eventmux/relationship"
	"github.com/Luismorlan/eventmux/reminder"
	"github.com/Luismorlan/eventmux/rsvp"
	. "github.com/Luismorlan/eventmux/utils/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	maxConcurrentAttendeeFetches = 8

	metricFeedBuild      = "feed.build"
	metricFeedFetchError = "feed.fetch_error"
)

var ErrMissingViewer = errors.New("viewer id is required to build a feed")

// Counter is the subset of the statsd client the composer reports to.
type Counter interface {
	Incr(name string, tags []string, rate float64) error
}

type Composer struct {
	Repository relationship.EventRepository
	// Location event dates and times are interpreted in. Defaults to UTC.
	Location *time.Location
	// Counter is optional.
	Counter Counter
}

func NewComposer(repository relationship.EventRepository, location *time.Location) *Composer {
	if location == nil {
		location = time.UTC
	}
	return &Composer{Repository: repository, Location: location}
}

func (c *Composer) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Feed is the result of one feed computation.
type Feed struct {
	Items              []*model.NotificationItem
	PendingInvitations []*model.PendingInvitation
	// Partial is set when a fetch failed and its contribution is missing.
	Partial bool
}

// UnreadCount is the number of pending invitations plus the number of feed
// items. It is not backed by any stored read state.
func (f *Feed) UnreadCount() int {
	return len(f.PendingInvitations) + len(f.Items)
}

// ReminderItemId is the id of the reminder of label for eventId.
func ReminderItemId(eventId string, label reminder.Label) string {
	return fmt.Sprintf("%s-reminder-%d", eventId, int(label))
}

// BuildFeed computes viewerId's feed at now. query, if not blank, keeps only
// items whose title or body contains it, ignoring case.
//
// Items are ordered by CreatedAt, most recent first. Items with equal
// timestamps keep their construction order, callers must not rely on it.
//
// A failed fetch does not fail the feed: its contribution is dropped, the
// failure is logged and Feed.Partial is set.
func (c *Composer) BuildFeed(ctx context.Context, viewerId string, now time.Time, query string) (*Feed, error) {
	viewerId = strings.TrimSpace(viewerId)
	if viewerId == "" {
		return nil, ErrMissingViewer
	}

	// events are dated in c.Location, older ones cannot have a reminder
	today := now.In(c.location()).Format("2006-01-02")

	var (
		wg                                  sync.WaitGroup
		attending, hosted                   []*model.Event
		pending                             []*model.PendingInvitation
		attendingErr, hostedErr, pendingErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		attending, attendingErr = c.Repository.ListAttendingEvents(ctx, viewerId, today)
	}()
	go func() {
		defer wg.Done()
		hosted, hostedErr = c.Repository.ListHostedEvents(ctx, viewerId)
	}()
	go func() {
		defer wg.Done()
		pending, pendingErr = c.Repository.ListPendingInvitations(ctx, viewerId)
	}()
	wg.Wait()

	feed := &Feed{PendingInvitations: []*model.PendingInvitation{}}
	if attendingErr != nil {
		c.reportFetchFailure(viewerId, "attending_events", attendingErr)
		attending = nil
		feed.Partial = true
	}
	if hostedErr != nil {
		c.reportFetchFailure(viewerId, "hosted_events", hostedErr)
		hosted = nil
		feed.Partial = true
	}
	if pendingErr != nil {
		c.reportFetchFailure(viewerId, "pending_invitations", pendingErr)
		feed.Partial = true
	} else if pending != nil {
		feed.PendingInvitations = pending
	}

	reminders := c.reminderItems(viewerId, attending, now)
	rsvps, ok := c.rsvpItems(ctx, viewerId, hosted, now)
	if !ok {
		feed.Partial = true
	}

	items := selfFilter(viewerId, hostedEventIds(viewerId, hosted), append(reminders, rsvps...))
	items = dedup(items)
	sortByRecency(items)
	feed.Items = Search(items, query)

	c.incr(metricFeedBuild, []string{fmt.Sprintf("partial:%t", feed.Partial)})
	return feed, nil
}

func (c *Composer) reminderItems(viewerId string, attending []*model.Event, now time.Time) []*model.NotificationItem {
	items := []*model.NotificationItem{}
	for _, event := range attending {
		if event == nil || model.SameUser(event.CreatorID, viewerId) {
			continue
		}
		startsAt, err := event.StartsAt(c.location())
		if err != nil {
			Log.WithFields(logrus.Fields{"event_id": event.Id}).Warn("skip reminders for event without valid start: ", err)
			continue
		}
		for _, label := range reminder.ActiveReminders(startsAt, now) {
			items = append(items, &model.NotificationItem{
				Id:                ReminderItemId(event.Id, label),
				Kind:              model.NotificationKindReminder,
				EventID:           event.Id,
				Title:             "Reminder: " + event.Title,
				Body:              fmt.Sprintf("%s starts in %s!", event.Title, label.Phrase()),
				AvatarUrl:         event.CoverImage,
				CreatedAt:         label.OpensAt(startsAt),
				ReferencedUserIds: []string{event.CreatorID},
			})
		}
	}
	return items
}

// rsvpItems fetches attendees of every hosted event concurrently and
// summarizes them. ok is false if any attendee fetch failed.
func (c *Composer) rsvpItems(ctx context.Context, viewerId string, hosted []*model.Event, now time.Time) ([]*model.NotificationItem, bool) {
	results := make([][]*model.NotificationItem, len(hosted))
	failed := make([]bool, len(hosted))
	sem := make(chan struct{}, maxConcurrentAttendeeFetches)

	var wg sync.WaitGroup
	for idx := range hosted {
		event := hosted[idx]
		if event == nil {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, event *model.Event) {
			defer wg.Done()
			defer func() { <-sem }()

			attendees, err := c.Repository.ListAttendees(ctx, event.Id)
			if err != nil {
				c.reportFetchFailure(viewerId, "attendees", errors.Wrap(err, "event "+event.Id))
				failed[idx] = true
				return
			}
			results[idx] = rsvp.Summarize(event, withoutUser(attendees, viewerId), now)
		}(idx, event)
	}
	wg.Wait()

	ok := true
	items := []*model.NotificationItem{}
	for idx := range results {
		if failed[idx] {
			ok = false
		}
		items = append(items, results[idx]...)
	}
	return items, ok
}

// withoutUser drops the host's own attendance so they are never told about
// their own RSVP.
func withoutUser(attendees []*model.Attendee, userId string) []*model.Attendee {
	out := make([]*model.Attendee, 0, len(attendees))
	for _, a := range attendees {
		if a == nil || model.SameUser(a.UserID, userId) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func hostedEventIds(viewerId string, hosted []*model.Event) map[string]bool {
	ids := map[string]bool{}
	for _, event := range hosted {
		if event != nil && model.SameUser(event.CreatorID, viewerId) {
			ids[event.Id] = true
		}
	}
	return ids
}

// selfFilter drops reminders about events the viewer hosts and every item
// that references the viewer.
func selfFilter(viewerId string, hosted map[string]bool, items []*model.NotificationItem) []*model.NotificationItem {
	out := make([]*model.NotificationItem, 0, len(items))
	for _, item := range items {
		if item.Kind == model.NotificationKindReminder && hosted[item.EventID] {
			continue
		}
		if item.References(viewerId) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// dedup keeps the first item of every id. The same event can show up twice
// in the attending list when the store returns duplicate rows.
func dedup(items []*model.NotificationItem) []*model.NotificationItem {
	seen := map[string]bool{}
	out := make([]*model.NotificationItem, 0, len(items))
	for _, item := range items {
		if seen[item.Id] {
			continue
		}
		seen[item.Id] = true
		out = append(out, item)
	}
	return out
}

func sortByRecency(items []*model.NotificationItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// Search keeps items whose title or body contains query, ignoring case. A
// blank query keeps everything.
func Search(items []*model.NotificationItem, query string) []*model.NotificationItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := []*model.NotificationItem{}
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), q) || strings.Contains(strings.ToLower(item.Body), q) {
			out = append(out, item)
		}
	}
	return out
}

func (c *Composer) reportFetchFailure(viewerId string, source string, err error) {
	Log.WithFields(logrus.Fields{"viewer_id": viewerId, "source": source}).Error("feed fetch failed, continue without it: ", err)
	c.incr(metricFeedFetchError, []string{"source:" + source})
}

func (c *Composer) incr(name string, tags []string) {
	if c.Counter == nil {
		return
	}
	if err := c.Counter.Incr(name, tags, 1); err != nil {
		Log.Infoln("cannot report metric ", name)
	}
}
