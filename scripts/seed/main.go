package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/Luismorlan/eventmux/model"
	"github.com/Luismorlan/eventmux/store"
	. "github.com/Luismorlan/eventmux/utils"
	"github.com/Luismorlan/eventmux/utils/dotenv"
	. "github.com/Luismorlan/eventmux/utils/flag"
	. "github.com/Luismorlan/eventmux/utils/log"
	"github.com/google/uuid"
)

var attendeeCount = flag.Int("attendees", 7, "number of guests RSVP'ing to the host's party")

// This binary fills the database configured by env with a host, a friend, an
// invitee and one event of every visibility, so the feed and the visibility
// rules can be tried against a local api server running with BYPASS_AUTH.
func main() {
	flag.CommandLine.Set("service", Seeder)
	flag.Parse()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	InitLogger()

	db, err := GetDBConnection()
	if err != nil {
		Log.Fatal("fail to connect to database: ", err)
	}
	if err := DatabaseSetupAndMigration(db); err != nil {
		Log.Fatal("fail to migrate database: ", err)
	}

	ctx := context.Background()
	s := store.New(db)
	suffix := uuid.New().String()[:8]

	mustUser := func(name string) *model.User {
		user, err := s.CreateUser(ctx, store.NewUserInput{
			Id:          uuid.New().String(),
			Username:    fmt.Sprintf("%s_%s", name, suffix),
			DisplayName: name,
		})
		if err != nil {
			Log.Fatal("fail to create user ", name, ": ", err)
		}
		return user
	}

	host := mustUser("Host")
	friend := mustUser("Friend")
	invitee := mustUser("Invitee")

	if _, err := s.SendFriendRequest(ctx, host.Id, friend.Id); err != nil {
		Log.Fatal(err)
	}
	if _, err := s.RespondFriendRequest(ctx, friend.Id, host.Id, true); err != nil {
		Log.Fatal(err)
	}

	start := time.Now().Add(90 * time.Minute)
	mustEvent := func(title string, visibility model.Visibility, at time.Time) *model.Event {
		event, err := s.CreateEvent(ctx, host.Id, store.EventInput{
			Title:      title,
			Date:       at.Format("2006-01-02"),
			Time:       at.Format("15:04"),
			Visibility: visibility,
		})
		if err != nil {
			Log.Fatal("fail to create event ", title, ": ", err)
		}
		return event
	}

	party := mustEvent("Rooftop Party", model.VisibilityPublic, start.Add(48*time.Hour))
	dinner := mustEvent("Friends Dinner", model.VisibilityFriendsOnly, start)
	secret := mustEvent("Surprise Planning", model.VisibilityPrivate, start.Add(3*time.Hour))

	if err := s.RSVP(ctx, dinner.Id, friend.Id); err != nil {
		Log.Fatal(err)
	}
	if _, err := s.InviteUser(ctx, host.Id, secret.Id, invitee.Id); err != nil {
		Log.Fatal(err)
	}
	for i := 0; i < *attendeeCount; i++ {
		guest := mustUser(fmt.Sprintf("Guest%d", i+1))
		if err := s.RSVP(ctx, party.Id, guest.Id); err != nil {
			Log.Fatal(err)
		}
	}

	Log.Info("seeded host ", host.Id, ", friend ", friend.Id, ", invitee ", invitee.Id)
}
