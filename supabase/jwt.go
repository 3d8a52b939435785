package supabase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// GenerateAccessToken mints a Supabase-compatible user token for local runs.
func GenerateAccessToken(secret, userID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("SUPABASE_JWT_SECRET not set")
	}

	claims := jwt.MapClaims{
		"sub":  userID,
		"aud":  "authenticated",
		"role": "authenticated",
		"exp":  time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
