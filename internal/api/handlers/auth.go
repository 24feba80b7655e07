package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yankaics/OnlineJudge/internal/api/response"
	"github.com/yankaics/OnlineJudge/internal/models"
	"github.com/yankaics/OnlineJudge/internal/service"
	"github.com/yankaics/OnlineJudge/pkg/logger"
)

type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, *models.User, error)
}

type AuthHandler struct {
	authService Authenticator
}

func NewAuthHandler(authService Authenticator) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type AuthResponse struct {
	Token string `json:"token"`
	User  gin.H  `json:"user"`
}

// Login 로그인
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, &service.ValidationError{Fields: map[string]string{"body": "username and password are required"}})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	logger.Info("User logged in", "userId", user.ID, "username", user.Username)

	c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		User: gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"adminType": user.AdminType,
		},
	})
}
