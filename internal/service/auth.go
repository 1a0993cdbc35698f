package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-auth-service/internal/core/auth"
	"go-auth-service/internal/domain"
	"go-auth-service/internal/repo"
	"go-auth-service/pkg/utils"
)

const forgotMessage = "If that email exists, a reset link has been sent."

type AuthResult struct {
	User  domain.PublicUser `json:"user"`
	Token string            `json:"token"`
}

type ForgotResult struct {
	Message string `json:"message"`
	// 仅开发模式下回传，生产走带外投递（邮件），接口不回显
	ResetToken string `json:"resetToken,omitempty"`
	ResetURL   string `json:"resetUrl,omitempty"`
}

type AuthService struct {
	users       domain.UserRepository
	jwter       *auth.JWTer
	resetTTL    time.Duration
	frontendURL string
	dev         bool
	log         *zap.Logger
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer, resetTTL time.Duration, frontendURL string, dev bool, log *zap.Logger) *AuthService {
	return &AuthService{
		users:       users,
		jwter:       jwter,
		resetTTL:    resetTTL,
		frontendURL: frontendURL,
		dev:         dev,
		log:         log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = normalizeEmail(email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, internal("signup failed", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, internal("signup failed", err)
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// 并发窗口里撞唯一索引，同样按重复邮箱报
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, internal("signup failed", err)
	}

	token, err := s.jwter.Issue(u.ID)
	if err != nil {
		return nil, internal("issue token failed", err)
	}
	return &AuthResult{User: u.Public(), Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, internal("login failed", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwter.Issue(u.ID)
	if err != nil {
		return nil, internal("issue token failed", err)
	}
	return &AuthResult{User: u.Public(), Token: token}, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*ForgotResult, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, internal("forgot password failed", err)
	}
	if u == nil {
		// 查不到也返回同一句话，响应形状不暴露账号存在性
		return &ForgotResult{Message: forgotMessage}, nil
	}

	secret, digest, err := auth.NewResetSecret()
	if err != nil {
		return nil, internal("forgot password failed", err)
	}

	expires := time.Now().Add(s.resetTTL)
	u.ResetDigest = &digest
	u.ResetExpiresAt = &expires // 覆盖任何未完成的旧重置
	if err := s.users.Update(ctx, u); err != nil {
		return nil, internal("forgot password failed", err)
	}

	resetURL := s.frontendURL + "/reset-password?token=" + secret
	out := &ForgotResult{Message: forgotMessage}
	if s.dev {
		s.log.Info("password reset url (development only)", zap.String("url", resetURL))
		out.ResetToken = secret
		out.ResetURL = resetURL
	}
	return out, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, secret, newPassword string) (string, error) {
	// 过期过滤在查询里完成，查询结果即权威判定
	u, err := s.users.FindByResetDigest(ctx, auth.ResetDigest(secret), time.Now())
	if err != nil {
		return "", internal("reset password failed", err)
	}
	if u == nil {
		return "", ErrInvalidOrExpiredReset
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return "", internal("reset password failed", err)
	}

	// 口令一次性：成功后两个字段一并清空，重放直接查不到
	u.PasswordHash = hash
	u.ResetDigest = nil
	u.ResetExpiresAt = nil
	if err := s.users.Update(ctx, u); err != nil {
		return "", internal("reset password failed", err)
	}
	return "Password has been reset successfully", nil
}
