package middleware

import (
	"github.com/gin-gonic/gin"

	"embedgate/uriutil"
)

// CORS reflects the Origin header back only when it satisfies one of the
// configured allow patterns. Patterns support wildcards, so membership is
// checked per request instead of via a prebuilt set.
func CORS(patterns []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if origin != "" && originAllowed(patterns, origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func originAllowed(patterns []string, origin string) bool {
	for _, p := range patterns {
		if uriutil.IsValidOrigin(p, origin) {
			return true
		}
	}
	return false
}
