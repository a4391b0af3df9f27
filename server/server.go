package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Luismorlan/eventmux/access"
	"github.com/Luismorlan/eventmux/notification"
	"github.com/Luismorlan/eventmux/server/middlewares"
	"github.com/Luismorlan/eventmux/store"
	"github.com/Luismorlan/eventmux/utils"
	. "github.com/Luismorlan/eventmux/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// CacheInvalidator drops cached relationship sets of users whose
// friendships, attendances or invitations just changed.
type CacheInvalidator interface {
	Forget(ctx context.Context, userIds ...string)
}

// Server serves the HTTP API. It is the dependency injection point for all
// handlers.
type Server struct {
	Store     *store.Store
	Evaluator *access.Evaluator
	Composer  *notification.Composer
	// Cache is nil when relationship sets are read straight from the DB.
	Cache CacheInvalidator
	// Location decides which calendar day "today" is.
	Location *time.Location
	Now      func() time.Time
}

// NewRouter registers every route on a gin engine. middlewares run before
// any handler, the auth middleware must be one of them unless auth is
// bypassed.
func NewRouter(s *Server, middlewares ...gin.HandlerFunc) *gin.Engine {
	if s.Now == nil {
		s.Now = time.Now
	}
	if s.Location == nil {
		s.Location = time.UTC
	}

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(middlewares...)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	router.POST("/users", s.CreateUser)

	events := router.Group("/events")
	events.GET("", s.ListEvents)
	events.POST("", s.CreateEvent)
	events.GET("/:id", s.GetEvent)
	events.PUT("/:id", s.UpdateEvent)
	events.DELETE("/:id", s.DeleteEvent)
	events.POST("/:id/rsvp", s.RSVP)
	events.DELETE("/:id/rsvp", s.CancelRSVP)
	events.POST("/:id/invitations", s.InviteUser)

	router.POST("/invitations/:id/respond", s.RespondInvitation)

	router.POST("/friends", s.SendFriendRequest)
	router.POST("/friends/:id/respond", s.RespondFriendRequest)

	router.GET("/notifications", s.Notifications)

	return router
}

// viewerOf returns the authenticated user id, empty for anonymous requests.
func viewerOf(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(middlewares.ViewerHeader))
}

// requireViewer aborts anonymous requests with 401.
func requireViewer(c *gin.Context) (string, bool) {
	viewer := viewerOf(c)
	if viewer == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"code": utils.ErrorMissingViewer,
			"msg":  "sign in required",
		})
		return "", false
	}
	return viewer, true
}

func abortWithError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, utils.ErrorInternal
	switch {
	case errors.Is(err, store.ErrNotFound):
		status, code = http.StatusNotFound, utils.ErrorNotFound
	case errors.Is(err, store.ErrForbidden):
		status, code = http.StatusForbidden, utils.ErrorForbidden
	case errors.Is(err, store.ErrConflict):
		status, code = http.StatusConflict, utils.ErrorConflict
	case errors.Is(err, store.ErrInvalidInput):
		status, code = http.StatusBadRequest, utils.ErrorBadRequest
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		Log.Error("request failed: ", c.Request.Method, " ", c.FullPath(), " err: ", err)
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"code": code, "msg": msg})
}

func abortBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"code": utils.ErrorBadRequest,
		"msg":  err.Error(),
	})
}

func (s *Server) forget(ctx context.Context, userIds ...string) {
	if s.Cache != nil {
		s.Cache.Forget(ctx, userIds...)
	}
}
