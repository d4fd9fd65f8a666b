// Package admin guards administrative endpoints with a shared secret.
package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Credential transport locations. Either one is sufficient.
const (
	HeaderName = "x-admin-key"
	QueryParam = "admin_key"
)

// Gate compares presented credentials to the configured admin key.
type Gate struct {
	key string
}

// NewGate returns a Gate for key. An empty key denies every request.
func NewGate(key string) *Gate {
	return &Gate{key: key}
}

// Authorize reports whether credential matches the configured key.
func (g *Gate) Authorize(credential string) bool {
	return g.key != "" && credential == g.key
}

// Middleware rejects requests that do not carry a valid admin credential in
// either location.
func Middleware(g *Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.Authorize(c.GetHeader(HeaderName)) && !g.Authorize(c.Query(QueryParam)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
