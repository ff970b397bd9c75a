package middleware

import (
	"story-engine/internal/interfaces"
	"story-engine/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReaderSession mints the stable per-browser session token on first contact
// and puts the models.Reader for this request into the gin context. The
// token is an opaque UUID held in an HttpOnly cookie and used verbatim as
// the progress key.
//
// Must be registered after OptionalAuth so an authenticated account gets
// linked to the reader. The Redis registry is best-effort bookkeeping; its
// failures never fail the request.
func ReaderSession(cookieName string, maxAgeSeconds int, registry interfaces.ReaderSessionRepository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			token = uuid.NewString()
			c.SetCookie(cookieName, token, maxAgeSeconds, "/", "", false, true)
			log.Debug("Minted new reader session token", zap.String("sessionKey", token))
		}

		var userID *uuid.UUID
		if claims, ok := ClaimsFrom(c); ok {
			id := claims.UserID
			userID = &id
		}

		c.Set(ContextReaderKey, models.Reader{SessionKey: token, UserID: userID})

		if registry != nil {
			if err := registry.Touch(c.Request.Context(), token, userID); err != nil {
				log.Warn("Reader session registry touch failed", zap.Error(err))
			}
		}

		c.Next()
	}
}
