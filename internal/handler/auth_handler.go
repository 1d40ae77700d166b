package handler

import (
	"net/http"
	"time"

	"food_marketplace/internal/middleware"
	"food_marketplace/internal/model"
	"food_marketplace/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles signup, login and session requests
type AuthHandler struct {
	service      service.AuthService
	auth         middleware.Authenticator
	render       *Renderer
	sessionTTL   time.Duration
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, auth middleware.Authenticator, render *Renderer, sessionTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		service:      s,
		auth:         auth,
		render:       render,
		sessionTTL:   sessionTTL,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.secureCookie, true)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.render.BadRequest(c, err)
		return
	}

	user, token, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		h.render.Error(c, err)
		return
	}

	h.setSessionCookie(c, token, int(h.sessionTTL.Seconds()))
	c.JSON(http.StatusCreated, gin.H{
		"message": "Signup successful",
		"user":    user.Summary(),
		"token":   token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.render.BadRequest(c, err)
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.render.Error(c, err)
		return
	}

	h.setSessionCookie(c, token, int(h.sessionTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user.Summary(),
		"token":   token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.TokenFrom(c)); err != nil {
		h.render.Error(c, err)
		return
	}
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) CurrentUser(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	user, err := h.service.CurrentUser(c.Request.Context(), actor)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Summary()})
}

// CheckSession reports whether the caller holds a live session. It never
// fails with anything but 401.
func (h *AuthHandler) CheckSession(c *gin.Context) {
	actor, err := h.auth.Authenticate(c.Request.Context(), middleware.TokenFrom(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "role": actor.Role})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.render.BadRequest(c, err)
		return
	}
	if err := h.service.ChangePassword(c.Request.Context(), actor, req); err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/check-session", h.CheckSession)
		authGroup.GET("/current-user", authMW, h.CurrentUser)
		authGroup.PUT("/password", authMW, h.ChangePassword)
	}
}
