package utils

import (
	"errors" // Error values
	"fmt"    // Error formatting
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// TokenLifetime is how long an issued token stays valid
const TokenLifetime = time.Hour

// ErrMissingEmail is returned when a token would carry no identity
var ErrMissingEmail = errors.New("token email is required")

// JWT Claims
type Claims struct {
	Email                string `json:"email"`          // Identity used by the ownership checks
	Name                 string `json:"name,omitempty"` // Display name from the posted profile
	jwt.RegisteredClaims        // Standard JWT claims
}

// GenerateJWT creates a signed token for the given user identity
func GenerateJWT(email, name, secret string) (string, error) {
	if email == "" {
		return "", ErrMissingEmail // Refuse tokens without an identity
	}
	now := time.Now()
	// Set token claims
	claims := Claims{
		Email: email, // Custom claim for the user's email
		Name:  name,  // Custom claim for the user's name
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,                                      // Subject is the email
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)), // Token expires in one hour
			IssuedAt:  jwt.NewNumericDate(now),                    // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a JWT token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		// Only HMAC tokens signed with our secret are accepted
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil // Return the secret key for validation
	})
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil // Return claims if valid
	}
	// Return error if token is invalid
	return nil, jwt.ErrSignatureInvalid
}
