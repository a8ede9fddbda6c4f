package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/shelf/internal/cache"
	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/repository"
	"github.com/d60-Lab/shelf/pkg/logger"
	"github.com/d60-Lab/shelf/pkg/mailer"
	"github.com/d60-Lab/shelf/pkg/token"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	// ForgotPassword never reveals whether the email is registered.
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

type AuthOptions struct {
	MinPasswordLen int
	ResetURL       string
	BcryptCost     int
}

type authService struct {
	users  repository.UserRepository
	tokens *token.Manager
	resets *cache.TokenStore
	mail   mailer.Mailer
	opts   AuthOptions
}

func NewAuthService(users repository.UserRepository, tokens *token.Manager, resets *cache.TokenStore,
	mail mailer.Mailer, opts AuthOptions) AuthService {
	if opts.MinPasswordLen <= 0 {
		opts.MinPasswordLen = 6
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &authService{users: users, tokens: tokens, resets: resets, mail: mail, opts: opts}
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (s *authService) checkPassword(pw string) error {
	if utf8.RuneCountInString(pw) < s.opts.MinPasswordLen {
		return ErrWeakPassword
	}
	return nil
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if err := s.checkPassword(in.Password); err != nil {
		return nil, err
	}
	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{Username: username, Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return s.issue(u)
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if repository.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *authService) issue(u *model.User) (*AuthResult, error) {
	tok, exp, err := s.tokens.Issue(u.ID, u.Username, u.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: tok, ExpiresAt: exp, UserID: u.ID, Username: u.Username, Email: u.Email}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if repository.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	tok, err := s.resets.Issue(ctx, u.ID)
	if err != nil {
		return err
	}
	link := html.EscapeString(s.opts.ResetURL + "?token=" + url.QueryEscape(tok))
	body := fmt.Sprintf(`<p>Hi %s,</p><p>Reset your password here: <a href="%s">%s</a></p>`,
		html.EscapeString(u.Username), link, link)
	if err := s.mail.Send(ctx, u.Email, "Reset your password", body); err != nil {
		logger.Error("send reset mail failed", zap.Error(err), zap.Int64("user_id", u.ID))
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if err := s.checkPassword(newPassword); err != nil {
		return err
	}
	userID, err := s.resets.Consume(ctx, resetToken)
	if errors.Is(err, cache.ErrTokenNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.opts.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		if repository.IsNotFound(err) {
			return ErrInvalidResetToken
		}
		return err
	}
	return nil
}
