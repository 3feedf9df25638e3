package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minhtvo/storefront-gateway/internal/app/store"
	"github.com/minhtvo/storefront-gateway/internal/errors"
	"github.com/minhtvo/storefront-gateway/internal/middleware"
	"github.com/minhtvo/storefront-gateway/pkg/util"
)

type SessionController struct {
	sessions    *store.SessionStore
	jwtSecret   string
	tokenExpiry time.Duration
}

func NewSessionController(sessions *store.SessionStore, jwtSecret string, tokenExpiry time.Duration) *SessionController {
	return &SessionController{
		sessions:    sessions,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

// Create opens a fresh anonymous session and returns its bearer token
// POST /api/v1/session
func (ctrl *SessionController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	session, err := ctrl.sessions.Create(c.Request.Context())
	if err != nil {
		log.Error("Failed to create session", err, nil)
		errors.InternalError(c, "")
		return
	}

	token, err := util.GenerateSessionToken(session.ID, ctrl.jwtSecret, ctrl.tokenExpiry)
	if err != nil {
		log.Error("Failed to mint session token", err, map[string]interface{}{
			"session_id": session.ID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":   token,
		"session": session,
	})
}

// Get returns the resolved session, including the signed-in user if any
// GET /api/v1/session
func (ctrl *SessionController) Get(c *gin.Context) {
	session := middleware.GetSession(c)
	c.JSON(http.StatusOK, gin.H{
		"session": session,
	})
}
