package auth

import (
	"context"
	"testing"
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/domain/auth"
	"github.com/oopspresent/attendance-backend-go/internal/domain/profile"
	"github.com/oopspresent/attendance-backend-go/internal/domain/user"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/jwt"
	"github.com/oopspresent/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

type authFixture struct {
	service    auth.AuthService
	jwt        jwt.Service
	users      user.UserRepository
	profiles   profile.ProfileRepository
	tokens     auth.RefreshTokenRepository
	sessionReq auth.SessionTrackingRequest
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()

	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp, false, jwt.NewMemoryRevocationStore())
	require.NoError(t, err)

	f := authFixture{
		jwt:        jwtService,
		users:      memory.NewUserRepository(),
		profiles:   memory.NewProfileRepository(),
		tokens:     memory.NewJWTRepository(),
		sessionReq: auth.SessionTrackingRequest{IPAddress: "127.0.0.1", UserAgent: "Mozilla/5.0"},
	}
	f.service = NewAuthService(memory.NewTransactor(), f.users, f.profiles, f.jwt, f.tokens)
	return f
}

func createPasswordUser(t *testing.T, ctx context.Context, users user.UserRepository, email, password string) user.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	hashedStr := string(hashed)

	created, err := users.Create(ctx, user.User{Email: email, Name: "Test User", PasswordHash: &hashedStr})
	require.NoError(t, err)
	return created
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	req := auth.RegisterRequest{
		Name:            "Asha Patil",
		Email:           "asha@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}
	response, err := f.service.Register(ctx, req, f.sessionReq)
	require.NoError(t, err)
	assert.NotEmpty(t, response.AccessToken)
	assert.NotEmpty(t, response.RefreshToken)
	assert.Greater(t, response.RefreshTokenExpiresIn, response.AccessTokenExpiresIn)

	created, err := f.users.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	require.True(t, created.HasPassword())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*created.PasswordHash), []byte("password123")))

	// A fresh profile starts without a division and batch
	p, err := f.profiles.GetByUserID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Patil", p.Name)
	assert.False(t, p.SetupComplete)

	userID, revoked, err := f.tokens.IsRefreshTokenRevoked(ctx, response.RefreshToken)
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Equal(t, created.ID, userID)
}

func TestAuthService_Register_Errors(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	createPasswordUser(t, ctx, f.users, "taken@example.com", "password123")

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.service.Register(ctx, auth.RegisterRequest{
			Name:            "Someone",
			Email:           "TAKEN@example.com",
			Password:        "password123",
			ConfirmPassword: "password123",
		}, f.sessionReq)
		assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
	})

	t.Run("password mismatch", func(t *testing.T) {
		_, err := f.service.Register(ctx, auth.RegisterRequest{
			Name:            "Someone",
			Email:           "new@example.com",
			Password:        "password123",
			ConfirmPassword: "password124",
		}, f.sessionReq)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "confirm_password")
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	createPasswordUser(t, ctx, f.users, "login@example.com", "password123")

	response, err := f.service.Login(ctx, auth.LoginRequest{Email: "login@example.com", Password: "password123"}, f.sessionReq)
	require.NoError(t, err)
	assert.NotEmpty(t, response.AccessToken)
	assert.Greater(t, response.AccessTokenExpiresIn, time.Now().Unix())

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "login@example.com", "wrongpassword"},
		{"unknown user", "nonexistent@example.com", "password123"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Login(ctx, auth.LoginRequest{Email: tc.email, Password: tc.password}, f.sessionReq)
			assert.Equal(t, auth.ErrInvalidCredentials, err)
		})
	}
}

func TestAuthService_Login_GoogleOnlyAccount(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.service.LoginWithGoogle(ctx, auth.GoogleAccount{
		GoogleID:      "google-id-1",
		Email:         "google@example.com",
		Name:          "Google User",
		VerifiedEmail: true,
	}, f.sessionReq)
	require.NoError(t, err)

	_, err = f.service.Login(ctx, auth.LoginRequest{Email: "google@example.com", Password: "password123"}, f.sessionReq)
	assert.Equal(t, auth.ErrInvalidCredentials, err)
}

func TestAuthService_LoginWithGoogle(t *testing.T) {
	ctx := context.Background()

	t.Run("new user", func(t *testing.T) {
		f := newAuthFixture(t)
		response, err := f.service.LoginWithGoogle(ctx, auth.GoogleAccount{
			GoogleID:      "google-id-123",
			Email:         "newgoogleuser@example.com",
			Name:          "New Google User",
			VerifiedEmail: true,
		}, f.sessionReq)
		require.NoError(t, err)
		assert.NotEmpty(t, response.AccessToken)

		created, err := f.users.GetByEmail(ctx, "newgoogleuser@example.com")
		require.NoError(t, err)
		require.NotNil(t, created.OAuthProviderID)
		assert.Equal(t, "google-id-123", *created.OAuthProviderID)
		assert.False(t, created.HasPassword())

		_, err = f.profiles.GetByUserID(ctx, created.ID)
		assert.NoError(t, err)
	})

	t.Run("links existing password account", func(t *testing.T) {
		f := newAuthFixture(t)
		existing := createPasswordUser(t, ctx, f.users, "existing@example.com", "password123")

		_, err := f.service.LoginWithGoogle(ctx, auth.GoogleAccount{
			GoogleID:      "google-id-456",
			Email:         "existing@example.com",
			VerifiedEmail: true,
		}, f.sessionReq)
		require.NoError(t, err)

		linked, err := f.users.GetByID(ctx, existing.ID)
		require.NoError(t, err)
		require.NotNil(t, linked.OAuthProvider)
		assert.Equal(t, user.ProviderGoogle, *linked.OAuthProvider)
		assert.True(t, linked.HasPassword(), "password sign-in keeps working")
	})

	t.Run("unverified email", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.service.LoginWithGoogle(ctx, auth.GoogleAccount{
			GoogleID: "google-id-789",
			Email:    "unverified@example.com",
		}, f.sessionReq)
		assert.ErrorIs(t, err, auth.ErrEmailNotVerified)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	createPasswordUser(t, ctx, f.users, "refresh@example.com", "password123")

	login, err := f.service.Login(ctx, auth.LoginRequest{Email: "refresh@example.com", Password: "password123"}, f.sessionReq)
	require.NoError(t, err)

	refreshed, err := f.service.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.AccessToken, refreshed.AccessToken)

	// An access token is not accepted as a refresh token
	_, err = f.service.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.Equal(t, auth.ErrInvalidToken, err)

	_, err = f.service.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "not-a-jwt"})
	assert.Equal(t, auth.ErrInvalidToken, err)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	createPasswordUser(t, ctx, f.users, "logout@example.com", "password123")

	login, err := f.service.Login(ctx, auth.LoginRequest{Email: "logout@example.com", Password: "password123"}, f.sessionReq)
	require.NoError(t, err)

	expiresAt := time.Unix(login.AccessTokenExpiresIn, 0)
	require.NoError(t, f.service.Logout(ctx, login.RefreshToken, "access-jti", expiresAt))

	_, err = f.service.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.Equal(t, auth.ErrRefreshTokenRevoked, err)

	revoked, err := f.jwt.IsTokenRevoked(ctx, "access-jti")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Logging out twice is harmless
	assert.NoError(t, f.service.Logout(ctx, login.RefreshToken, "access-jti", expiresAt))
}
