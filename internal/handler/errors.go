package handler

import (
	"errors"
	"net/http"

	"food_marketplace/internal/logger"
	"food_marketplace/internal/middleware"
	"food_marketplace/internal/model"
	"food_marketplace/internal/service"

	"github.com/gin-gonic/gin"
)

// Renderer writes error responses. Business errors carry their own
// message; anything unexpected becomes a 500 whose detail is hidden in
// production.
type Renderer struct {
	log        *logger.Logger
	production bool
}

func NewRenderer(log *logger.Logger, production bool) *Renderer {
	return &Renderer{log: log, production: production}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error maps err to a status and writes {"error": message}.
func (r *Renderer) Error(c *gin.Context, err error) {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.Error(err)
	r.log.Error(c.Request.Context(), "request_failed", "Unexpected error", err, "path", c.FullPath())
	msg := "Internal server error"
	if !r.production {
		msg = err.Error()
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// BadRequest writes the first binding or validation problem.
func (r *Renderer) BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
}

// Actor returns the session actor or writes a 401.
func (r *Renderer) Actor(c *gin.Context) (model.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	}
	return actor, ok
}
