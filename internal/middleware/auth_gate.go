package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inventory/internal/auth"
)

var publicPrefixes = []string{"/static/"}

var publicPaths = map[string]bool{
	"/api/auth/login":  true,
	"/api/auth/logout": true,
	"/login":           true,
	"/healthz":         true,
	"/metrics":         true,
}

// IsPublicPath reporta si una ruta no requiere sesión
func IsPublicPath(path string) bool {
	if publicPaths[path] {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// AuthGate exige sesión o basic auth con el PIN en todo lo que no sea público
func AuthGate(sessions *auth.Sessions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.Enabled() || IsPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		if sessions.HasSession(c) {
			c.Next()
			return
		}

		if _, password, ok := c.Request.BasicAuth(); ok && sessions.CheckPIN(password) == nil {
			if err := sessions.StartSession(c); err != nil {
				logger.Error("failed to start session from basic auth",
					zap.String("request_id", GetRequestID(c)),
					zap.Error(err),
				)
			}
			c.Next()
			return
		}

		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		c.Redirect(http.StatusFound, "/login?redirect="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}
