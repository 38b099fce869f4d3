package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// OwnerKey is the gin context key for the owner ID.
const OwnerKey = "owner_id"

const maxOwnerIDLength = 128

// Owner reads the owner ID set by the upstream gateway from header and
// rejects requests without one.
func Owner(header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := strings.TrimSpace(c.GetHeader(header))
		if owner == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + header + " header"})
			return
		}
		if len(owner) > maxOwnerIDLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": header + " header is too long"})
			return
		}
		c.Set(OwnerKey, owner)
		c.Next()
	}
}

// OwnerID returns the owner of the request, or "" before Owner ran.
func OwnerID(c *gin.Context) string {
	return c.GetString(OwnerKey)
}
