package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// ProfileCookie carries the browser profile id
	ProfileCookie = "wempy_profile"
	// ProfileHeader may carry the profile id for clients without cookies
	ProfileHeader = "X-Wempy-Profile"

	profileContextKey = "profile_id"
	profileCookieAge  = 365 * 24 * 60 * 60
)

// ProfileMiddleware resolves the browser profile of a request. A missing or
// malformed id starts a new profile and sets its cookie.
func ProfileMiddleware(secure bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(ProfileHeader)
		if raw == "" {
			raw, _ = c.Cookie(ProfileCookie)
		}

		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			id = uuid.New()
			if raw != "" {
				logger.Debug("Replacing malformed profile id", zap.String("profile_id", raw))
			}
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(ProfileCookie, id.String(), profileCookieAge, "/", "", secure, true)
		c.Set(profileContextKey, id.String())
		c.Next()
	}
}

// GetProfileFromContext returns the profile id resolved by ProfileMiddleware
func GetProfileFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(profileContextKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
