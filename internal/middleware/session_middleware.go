package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/app/store"
	"github.com/minhtvo/storefront-gateway/internal/errors"
	"github.com/minhtvo/storefront-gateway/pkg/util"
)

// Context keys for session information
const (
	SessionIDKey = "session_id"
	SessionKey   = "session"
)

type SessionMiddleware struct {
	jwtSecret string
	sessions  *store.SessionStore
}

func NewSessionMiddleware(jwtSecret string, sessions *store.SessionStore) *SessionMiddleware {
	return &SessionMiddleware{
		jwtSecret: jwtSecret,
		sessions:  sessions,
	}
}

// Require validates the session token and loads the session into context
func (m *SessionMiddleware) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		var token string

		// Try the Authorization header first
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Định dạng xác thực không hợp lệ")
				c.Abort()
				return
			}
			token = parts[1]
		} else {
			// Fall back to query parameter (for WebSocket upgrades)
			token = c.Query("token")
			if token == "" {
				log.Warn("Missing session token", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.SessionNotFound, "Thiếu mã phiên làm việc")
				c.Abort()
				return
			}
		}

		claims, err := util.ValidateSessionToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Session token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Phiên làm việc đã hết hạn")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Mã phiên không hợp lệ")
			}
			c.Abort()
			return
		}

		session, err := m.sessions.Get(c.Request.Context(), claims.SessionID)
		if err != nil {
			log.Warn("Session not found for valid token", map[string]interface{}{
				"session_id": claims.SessionID,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.SessionNotFound, "Phiên làm việc đã hết hạn. Vui lòng tải lại trang")
			c.Abort()
			return
		}

		c.Set(SessionIDKey, session.ID)
		c.Set(SessionKey, session)

		log.Debug("Session resolved", map[string]interface{}{
			"session_id": session.ID,
			"signed_in":  session.SignedIn(),
		})

		c.Next()
	}
}

// RequireUser additionally rejects sessions with no signed-in user
func (m *SessionMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if session == nil || !session.SignedIn() {
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects sessions not signed in as store staff
func (m *SessionMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if session == nil || !session.SignedIn() || session.User.Role != model.RoleAdmin {
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzAdminOnly, "Chỉ quản trị viên mới được phép")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSessionID returns the session id set by Require
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// GetSession returns the session set by Require, or nil
func GetSession(c *gin.Context) *model.Session {
	if v, exists := c.Get(SessionKey); exists {
		if s, ok := v.(*model.Session); ok {
			return s
		}
	}
	return nil
}
