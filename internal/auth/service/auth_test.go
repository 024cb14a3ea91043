package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/auth/jwt"
	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/auth/repository"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/config"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/errors"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/logger"
)

type fakeUserStore struct {
	byEmail map[string]*repository.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]*repository.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, u *repository.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return errors.Conflict("a user with this email already exists")
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errors.NotFound("user")
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*repository.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.NotFound("user")
}

func newAuthService() (*AuthService, *jwt.Manager) {
	manager := jwt.NewManager(&config.JWTConfig{
		Secret:       "test-secret-key",
		AccessExpiry: time.Hour,
		Issuer:       "expiry-optimist-test",
	})
	log := logger.New("test", "test")
	return NewAuthService(newFakeUserStore(), manager, log), manager
}

func TestRegisterAndLogin(t *testing.T) {
	svc, manager := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{
		Email:    "manager@store.example",
		Name:     "Store Manager",
		Password: "super-secret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "super-secret", user.PasswordHash)

	resp, err := svc.Login(ctx, &LoginRequest{
		Email:    "manager@store.example",
		Password: "super-secret",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Token)
	assert.Equal(t, "Bearer", resp.Token.TokenType)

	claims, err := manager.Validate(resp.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "manager@store.example", claims.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{
		Email:    "manager@store.example",
		Name:     "Store Manager",
		Password: "super-secret",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginRequest{
		Email:    "manager@store.example",
		Password: "wrong",
	})
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

func TestLogin_UnknownUserLooksLikeBadPassword(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "nobody@store.example",
		Password: "whatever",
	})
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "manager@store.example",
		Name:     "Store Manager",
		Password: "short",
	})
	assert.Error(t, err)
}

func TestValidate_RejectsTamperedToken(t *testing.T) {
	_, manager := newAuthService()

	other := jwt.NewManager(&config.JWTConfig{
		Secret:       "different-secret",
		AccessExpiry: time.Hour,
		Issuer:       "expiry-optimist-test",
	})

	token, err := other.Generate(&jwt.UserInfo{ID: "u1", Email: "a@b.c", Name: "A"})
	require.NoError(t, err)

	_, err = manager.Validate(token.AccessToken)
	assert.Error(t, err)
}

func TestValidate_RejectsExpiredToken(t *testing.T) {
	manager := jwt.NewManager(&config.JWTConfig{
		Secret:       "test-secret-key",
		AccessExpiry: -time.Minute,
		Issuer:       "expiry-optimist-test",
	})

	token, err := manager.Generate(&jwt.UserInfo{ID: "u1", Email: "a@b.c", Name: "A"})
	require.NoError(t, err)

	_, err = manager.Validate(token.AccessToken)
	assert.True(t, errors.Is(err, errors.ErrTokenExpired))
}
