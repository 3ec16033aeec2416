package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MinKhant07/Thumbnail/internal/application/usecase/gallery"
	"github.com/MinKhant07/Thumbnail/pkg/auth"
	"github.com/MinKhant07/Thumbnail/pkg/logger"
)

const (
	GinContextKeySession = "gallerySession"
)

// AuthMiddleware validates the bearer token and attaches the gallery
// session it is bound to. A session lost to a process restart is
// reopened from the store; that reopen failing is still not fatal, the
// request proceeds with an empty view.
func AuthMiddleware(jwtSvc *auth.JWTService, sessions *gallery.Registry, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		session, loadErr := sessions.Resolve(c.Request.Context(), claims.SessionID, claims.OwnerID)
		if loadErr != nil {
			log.Warn("Gallery reload failed while resolving session", zap.Error(loadErr),
				zap.String("session_id", claims.SessionID.String()))
		}

		c.Set(GinContextKeySession, session)

		c.Next()
	}
}

// SessionFromGinContext fetches the gallery session set by AuthMiddleware.
func SessionFromGinContext(c *gin.Context) (*gallery.Session, bool) {
	v, ok := c.Get(GinContextKeySession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*gallery.Session)
	return s, ok
}
