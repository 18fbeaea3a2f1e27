package services

import (
	"testing"

	"clutchpay_backend/internal/config"
	"clutchpay_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg

	m.Run()
}

func TestRegisterAndLogin(t *testing.T) {
	userRepo := &fakeUserRepo{}
	svc := NewAuthService(userRepo)

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:    "alice@example.com",
		Password: "supersecret",
		Name:     "Alice",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	// New accounts start with the email channel on.
	assert.True(t, resp.User.EmailNotifications)

	_, err = svc.Register(&dto.RegisterRequest{
		Email:    "alice@example.com",
		Password: "supersecret",
		Name:     "Alice Again",
	})
	require.Error(t, err, "duplicate email must be rejected")

	login, err := svc.Login(&dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)

	_, err = svc.Login(&dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	assert.Error(t, err)
}

func TestRegister_WeakPasswordRejected(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{})

	_, err := svc.Register(&dto.RegisterRequest{
		Email:    "bob@example.com",
		Password: "short",
		Name:     "Bob",
	})
	assert.Error(t, err)
}

func TestUpdatePreferences(t *testing.T) {
	userRepo := &fakeUserRepo{}
	svc := NewAuthService(userRepo)

	reg, err := svc.Register(&dto.RegisterRequest{
		Email:    "carol@example.com",
		Password: "supersecret",
		Name:     "Carol",
	})
	require.NoError(t, err)

	off := false
	resp, err := svc.UpdatePreferences(reg.User.ID, &dto.UpdatePreferencesRequest{
		EmailNotifications: &off,
	})
	require.NoError(t, err)
	assert.False(t, resp.EmailNotifications)

	_, err = svc.UpdatePreferences("missing-user", &dto.UpdatePreferencesRequest{
		EmailNotifications: &off,
	})
	assert.Error(t, err)
}
