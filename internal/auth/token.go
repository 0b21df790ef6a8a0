package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// TokenBytes is the amount of randomness in a session token.
const TokenBytes = 48

const bearerPrefix = "Bearer "

// GenerateToken returns a fresh URL-safe session token.
func GenerateToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// BearerToken extracts the token from an Authorization header value of the
// form "Bearer <token>". ok is false for a missing header, another scheme or
// an empty token.
func BearerToken(header string) (token string, ok bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token = strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
