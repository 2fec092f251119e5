package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/meetgrid/booking-api/internal/models"
	"github.com/meetgrid/booking-api/pkg/config"
	appErrors "github.com/meetgrid/booking-api/pkg/errors"
)

type mockAuthRepo struct {
	profile   *models.Profile
	emailErr  error
	idErr     error
	lastLogin time.Time
}

func (m *mockAuthRepo) FindByEmail(_ context.Context, _ string) (*models.Profile, error) {
	if m.emailErr != nil {
		return nil, m.emailErr
	}
	return m.profile, nil
}

func (m *mockAuthRepo) FindByID(_ context.Context, _ string) (*models.Profile, error) {
	if m.idErr != nil {
		return nil, m.idErr
	}
	return m.profile, nil
}

func (m *mockAuthRepo) UpdateLastLogin(_ context.Context, _ string, ts time.Time) error {
	m.lastLogin = ts
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test_secret", Expiration: time.Hour, Issuer: "meetgrid-test"}
}

func activeProfile(t *testing.T, password string) *models.Profile {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.Profile{
		ID:           "prof-1",
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		DisplayName:  "Ana",
		Slug:         "ana",
		Timezone:     "UTC",
		Active:       true,
	}
}

func TestAuthServiceLogin(t *testing.T) {
	repo := &mockAuthRepo{profile: activeProfile(t, "hunter2")}
	svc := NewAuthService(repo, testJWTConfig(), nil, zap.NewNop())

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "hunter2"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, "ana", res.Profile.Slug)
	assert.False(t, repo.lastLogin.IsZero())

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "prof-1", claims.ProfileID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "meetgrid-test", claims.Issuer)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := &mockAuthRepo{profile: activeProfile(t, "hunter2")}
	svc := NewAuthService(repo, testJWTConfig(), nil, zap.NewNop())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "letmein"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	repo := &mockAuthRepo{emailErr: sql.ErrNoRows}
	svc := NewAuthService(repo, testJWTConfig(), nil, zap.NewNop())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "hunter2"})
	require.Error(t, err)
	// Unknown accounts are indistinguishable from wrong passwords.
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	profile := activeProfile(t, "hunter2")
	profile.Active = false
	svc := NewAuthService(&mockAuthRepo{profile: profile}, testJWTConfig(), nil, zap.NewNop())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "hunter2"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginValidation(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, testJWTConfig(), nil, zap.NewNop())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsTampering(t *testing.T) {
	repo := &mockAuthRepo{profile: activeProfile(t, "hunter2")}
	svc := NewAuthService(repo, testJWTConfig(), nil, zap.NewNop())

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "hunter2"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.AccessToken + "x")
	assert.Error(t, err)

	other := NewAuthService(repo, config.JWTConfig{Secret: "different", Expiration: time.Hour}, nil, zap.NewNop())
	_, err = other.ValidateToken(res.AccessToken)
	assert.Error(t, err)
}

func TestAuthServiceCurrentProfile(t *testing.T) {
	repo := &mockAuthRepo{profile: activeProfile(t, "hunter2")}
	svc := NewAuthService(repo, testJWTConfig(), nil, zap.NewNop())

	profile, err := svc.CurrentProfile(context.Background(), "prof-1")
	require.NoError(t, err)
	assert.Equal(t, "ana", profile.Slug)

	repo.idErr = sql.ErrNoRows
	_, err = svc.CurrentProfile(context.Background(), "prof-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
