package middleware

import (
	"story-engine/internal/models"

	"github.com/gin-gonic/gin"
)

// Keys under which middleware stores values in the gin context.
const (
	ContextClaimsKey = "claims"
	ContextReaderKey = "reader"
)

// ReaderFrom extracts the reader identity set by ReaderSession.
func ReaderFrom(c *gin.Context) (models.Reader, bool) {
	v, ok := c.Get(ContextReaderKey)
	if !ok {
		return models.Reader{}, false
	}
	reader, ok := v.(models.Reader)
	return reader, ok
}

// ClaimsFrom extracts verified JWT claims, when the request carried a token.
func ClaimsFrom(c *gin.Context) (*models.Claims, bool) {
	v, ok := c.Get(ContextClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*models.Claims)
	return claims, ok
}

// CallerFrom derives the capability view of the authenticated caller, or
// nil for anonymous requests.
func CallerFrom(c *gin.Context) *models.CallerIdentity {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return nil
	}
	caller := models.CallerFromClaims(claims)
	return &caller
}
