package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inventory/internal/auth"
	"inventory/internal/middleware"
)

type LoginRequest struct {
	PIN string `json:"pin"`
}

type AuthHandler struct {
	sessions *auth.Sessions
	logger   *zap.Logger
}

func NewAuthHandler(sessions *auth.Sessions, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// Login valida el PIN compartido y abre la sesión
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	if err := h.sessions.CheckPIN(req.PIN); err != nil {
		if errors.Is(err, auth.ErrPINNotConfigured) {
			h.logger.Error("login attempted but APP_PIN is not set",
				zap.String("request_id", middleware.GetRequestID(c)),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "PIN not configured"})
			return
		}
		middleware.RecordLogin("invalid")
		h.logger.Warn("invalid PIN",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("ip", c.ClientIP()),
		)
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid PIN"})
		return
	}

	if err := h.sessions.StartSession(c); err != nil {
		respondError(c, h.logger, err, "Failed to start session")
		return
	}

	middleware.RecordLogin("ok")
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// Logout borra la cookie de sesión
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.EndSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
