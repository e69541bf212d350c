package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cuaderno/internal/middleware"
	"cuaderno/internal/service"
	"cuaderno/pkg/response"
)

type AuthHandler struct {
	authService  service.AuthService
	secureCookie bool
}

func NewAuthHandler(authService service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.GET("/status", h.Status)
		auth.POST("/login", middleware.LoginRateLimiter(20, time.Minute), h.Login)
		auth.POST("/logout", h.Logout)
	}
}

// Status reports whether a passcode is required
// @Summary      Auth status
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/status [get]
func (h *AuthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"enabled": h.authService.Enabled()}))
}

// Login exchanges the owner's passcode for a session token
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Passcode"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      401      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	token, err := h.authService.Login(req)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetSessionCookie(c, token.Token, time.Until(token.ExpiresAt), h.secureCookie)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, token))
}

// Logout clears the session cookie
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, h.secureCookie)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Logged out"}))
}
