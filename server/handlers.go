package server

import (
	"net/http"

	"github.com/Luismorlan/eventmux/store"
	. "github.com/Luismorlan/eventmux/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (s *Server) CreateUser(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	user, err := s.Store.CreateUser(c.Request.Context(), store.NewUserInput{
		Id:          viewer,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		AvatarUrl:   req.AvatarUrl,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListEvents returns upcoming events the viewer may see, from the "from"
// date (YYYY-MM-DD) or today.
func (s *Server) ListEvents(c *gin.Context) {
	from := c.DefaultQuery("from", s.Now().In(s.Location).Format("2006-01-02"))
	events, err := s.Store.ListEvents(c.Request.Context(), from)
	if err != nil {
		abortWithError(c, err)
		return
	}
	visible, err := s.Evaluator.FilterVisible(c.Request.Context(), events, viewerOf(c))
	if err != nil {
		// visible already excludes everything that could not be checked
		Log.WithFields(logrus.Fields{"viewer_id": viewerOf(c)}).Warn("list events without restricted ones: ", err)
	}
	out, err := toEventResponses(visible)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}

// GetEvent answers 404 for events the viewer may not see, so their existence
// is not revealed.
func (s *Server) GetEvent(c *gin.Context) {
	event, err := s.Store.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	visible, err := s.Evaluator.CanView(c.Request.Context(), event, viewerOf(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !visible {
		abortWithError(c, store.ErrNotFound)
		return
	}
	out, err := toEventResponse(event)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) CreateEvent(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	event, err := s.Store.CreateEvent(c.Request.Context(), viewer, store.EventInput(req))
	if err != nil {
		abortWithError(c, err)
		return
	}
	out, err := toEventResponse(event)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (s *Server) UpdateEvent(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	event, err := s.Store.UpdateEvent(c.Request.Context(), viewer, c.Param("id"), store.EventInput(req))
	if err != nil {
		abortWithError(c, err)
		return
	}
	out, err := toEventResponse(event)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) DeleteEvent(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	if err := s.Store.DeleteEvent(c.Request.Context(), viewer, c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RSVP is only possible on events the viewer can see.
func (s *Server) RSVP(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	event, err := s.Store.GetEvent(ctx, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	visible, err := s.Evaluator.CanView(ctx, event, viewer)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !visible {
		abortWithError(c, store.ErrNotFound)
		return
	}
	if err := s.Store.RSVP(ctx, event.Id, viewer); err != nil {
		abortWithError(c, err)
		return
	}
	s.forget(ctx, viewer)
	c.Status(http.StatusNoContent)
}

func (s *Server) CancelRSVP(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	if err := s.Store.CancelRSVP(c.Request.Context(), c.Param("id"), viewer); err != nil {
		abortWithError(c, err)
		return
	}
	s.forget(c.Request.Context(), viewer)
	c.Status(http.StatusNoContent)
}

func (s *Server) InviteUser(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	invitation, err := s.Store.InviteUser(c.Request.Context(), viewer, c.Param("id"), req.InviteeID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	s.forget(c.Request.Context(), invitation.InviteeID)
	c.JSON(http.StatusCreated, invitation)
}

func (s *Server) RespondInvitation(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	invitation, err := s.Store.RespondInvitation(c.Request.Context(), viewer, c.Param("id"), req.Accept)
	if err != nil {
		abortWithError(c, err)
		return
	}
	s.forget(c.Request.Context(), viewer)
	c.JSON(http.StatusOK, invitation)
}

func (s *Server) SendFriendRequest(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	var req FriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	friendship, err := s.Store.SendFriendRequest(c.Request.Context(), viewer, req.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, friendship)
}

// RespondFriendRequest answers the request sent by the user in the path.
func (s *Server) RespondFriendRequest(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	friendship, err := s.Store.RespondFriendRequest(c.Request.Context(), viewer, c.Param("id"), req.Accept)
	if err != nil {
		abortWithError(c, err)
		return
	}
	s.forget(c.Request.Context(), friendship.RequesterID, friendship.AddresseeID)
	c.JSON(http.StatusOK, friendship)
}

// Notifications returns the viewer's feed, filtered by the "q" query.
func (s *Server) Notifications(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	feed, err := s.Composer.BuildFeed(c.Request.Context(), viewer, s.Now(), c.Query("q"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	out, err := toFeedResponse(feed)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
