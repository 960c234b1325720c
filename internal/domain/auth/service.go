package auth

import (
	"context"
	"time"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest, session SessionTrackingRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)

	// LoginWithGoogle signs in a verified Google account, creating the user and profile on first sign-in
	LoginWithGoogle(ctx context.Context, account GoogleAccount, session SessionTrackingRequest) (TokenResponse, error)

	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)

	// Logout revokes the refresh token and the access token identified by accessJTI
	Logout(ctx context.Context, refreshToken string, accessJTI string, accessExpiresAt time.Time) error
}

// RefreshTokenRepository persists refresh tokens by hash
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session SessionTrackingRequest) error

	// IsRefreshTokenRevoked returns the owner and whether the token is revoked or expired
	IsRefreshTokenRevoked(ctx context.Context, token string) (userID string, revoked bool, err error)

	RevokeRefreshToken(ctx context.Context, token string) error

	// DeleteExpired removes expired and revoked tokens and returns how many were removed
	DeleteExpired(ctx context.Context) (int64, error)
}
