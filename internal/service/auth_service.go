package service

import (
	"context"
	"fmt"

	"github.com/yankaics/OnlineJudge/internal/models"
	jwtutil "github.com/yankaics/OnlineJudge/pkg/jwt"
)

type AuthService struct {
	users      UserDirectory
	jwtManager *jwtutil.JWTManager
}

func NewAuthService(users UserDirectory, jwtManager *jwtutil.JWTManager) *AuthService {
	return &AuthService{users: users, jwtManager: jwtManager}
}

// Login 사용자명/비밀번호 확인 후 토큰 발급
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !user.CheckPassword(password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.Generate(user.ID, user.Username, int(user.AdminType))
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user, nil
}
