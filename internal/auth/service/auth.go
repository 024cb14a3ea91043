package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/auth/jwt"
	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/auth/repository"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/errors"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/httputil"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/logger"
)

// UserStore is the user persistence surface the auth service depends on.
// *repository.UserRepository satisfies it.
type UserStore interface {
	Create(ctx context.Context, u *repository.User) error
	GetByEmail(ctx context.Context, email string) (*repository.User, error)
	GetByID(ctx context.Context, id string) (*repository.User, error)
}

// AuthService handles authentication
type AuthService struct {
	users      UserStore
	jwtManager *jwt.Manager
	logger     *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, jwtManager *jwt.Manager, log *logger.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
		logger:     log,
	}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the account creation payload
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse carries the issued token and the authenticated user
type LoginResponse struct {
	Token *jwt.Token       `json:"token"`
	User  *repository.User `json:"user"`
}

// Login authenticates a user and issues an access token
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := httputil.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		// Do not reveal whether the account exists.
		return nil, errors.InvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("email", req.Email).Msg("failed login attempt")
		return nil, errors.InvalidCredentials()
	}

	token, err := s.jwtManager.Generate(&jwt.UserInfo{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	})
	if err != nil {
		return nil, err
	}

	return &LoginResponse{Token: token, User: user}, nil
}

// Register creates a new account
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*repository.User, error) {
	if err := httputil.Validate(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &repository.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", user.Email).Msg("user registered")
	return user, nil
}

// EnsureUser creates the account if it does not exist. Used to seed the
// initial login in development.
func (s *AuthService) EnsureUser(ctx context.Context, email, name, password string) error {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	}

	_, err := s.Register(ctx, &RegisterRequest{Email: email, Name: name, Password: password})
	if errors.Is(err, errors.ErrConflict) {
		return nil
	}
	return err
}

// Me returns the account for an authenticated user ID
func (s *AuthService) Me(ctx context.Context, userID string) (*repository.User, error) {
	return s.users.GetByID(ctx, userID)
}
