package middleware

import (
	"net/http"
	"strings"

	"story-engine/internal/authutils"
	"story-engine/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OptionalAuth verifies a bearer token when one is present and stores the
// claims in the context. Requests without an Authorization header pass
// through anonymously; a present but invalid token is rejected.
func OptionalAuth(verifier *authutils.JWTVerifier, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		claims, err := verifyBearer(c, verifier, authHeader, log)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "token is invalid"})
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(verifier *authutils.JWTVerifier, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "authentication required"})
			return
		}

		claims, err := verifyBearer(c, verifier, authHeader, log)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "token is invalid"})
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// RequireAuthor passes only callers with the author or staff capability.
// Must run after RequireAuth.
func RequireAuthor(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if caller == nil || (!caller.IsAuthor && !caller.IsStaff) {
			if caller != nil {
				log.Warn("Caller lacks author capability", zap.String("userID", caller.ID.String()))
			}
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{Error: "author access required"})
			return
		}
		c.Next()
	}
}

func verifyBearer(c *gin.Context, verifier *authutils.JWTVerifier, authHeader string, log *zap.Logger) (*models.Claims, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		log.Warn("Invalid Authorization header format")
		return nil, models.ErrTokenMalformed
	}

	claims, err := verifier.VerifyToken(c.Request.Context(), parts[1])
	if err != nil {
		log.Warn("Token verification failed", zap.Error(err))
		return nil, err
	}
	return claims, nil
}
