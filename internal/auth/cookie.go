package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StartSession emite un token nuevo y lo deja en la cookie de sesión
func (s *Sessions) StartSession(c *gin.Context) error {
	token, err := s.Issue()
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(s.ttl.Seconds()), "/", "", s.secureCookie, true)
	return nil
}

// EndSession borra la cookie de sesión
func (s *Sessions) EndSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", s.secureCookie, true)
}

// HasSession indica si la petición trae una cookie de sesión válida
func (s *Sessions) HasSession(c *gin.Context) bool {
	raw, err := c.Cookie(CookieName)
	if err != nil {
		return false
	}
	return s.Verify(raw) == nil
}
