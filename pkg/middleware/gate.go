package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RouteGate redirects requests for protected page prefixes to the login page
// when no token is present at all. This is a presence-only check: full
// verification happens at the operation layer, the gate merely keeps
// unauthenticated browsers out of the UI shell.
func RouteGate(protectedPrefixes []string, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		protected := false
		for _, p := range protectedPrefixes {
			if strings.HasPrefix(path, p) {
				protected = true
				break
			}
		}
		if !protected {
			c.Next()
			return
		}
		if BearerToken(c) == "" {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
