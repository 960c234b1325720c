package http

import (
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

// getUserIDFromContext extracts user_id from JWT context
func getUserIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}

// accessTokenFromContext returns the jti and expiry of a verified access token, if any
func accessTokenFromContext(r *http.Request) (jti string, expiresAt time.Time) {
	token, _, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return "", time.Time{}
	}
	return token.JwtID(), token.Expiration()
}

func sessionFromRequest(r *http.Request) (ip string, userAgent string) {
	return r.RemoteAddr, r.UserAgent()
}
