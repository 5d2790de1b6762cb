package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inventory/internal/middleware"
	"inventory/internal/repository"
	"inventory/internal/service"
)

// respondError traduce errores de dominio a respuestas HTTP
func respondError(c *gin.Context, logger *zap.Logger, err error, message string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": verr.Errors})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.Is(err, repository.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": []service.FieldError{{
			Field:   "ids",
			Tag:     "objectid",
			Message: err.Error(),
		}}})
	case errors.Is(err, repository.ErrDuplicateSlug):
		c.JSON(http.StatusConflict, gin.H{"message": "Slug already in use"})
	default:
		_ = c.Error(err)
		logger.Error(message,
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"message": message})
	}
}

func invalidBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"message": "Validation failed",
		"errors": []service.FieldError{{
			Field:   "body",
			Tag:     "json",
			Message: "request body must be valid JSON: " + err.Error(),
		}},
	})
}
