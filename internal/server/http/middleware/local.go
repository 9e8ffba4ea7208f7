package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// LocalOnly rejects requests that do not originate from a loopback address.
// The viewer API exposes transaction history and must stay on the host.
func LocalOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := net.ParseIP(c.ClientIP())
		if ip == nil || !ip.IsLoopback() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "local access only"})
			return
		}
		c.Next()
	}
}
