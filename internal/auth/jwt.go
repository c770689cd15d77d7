package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"nightout/internal/config"
)

// Claims are the custom session token claims, embedding jwt.RegisteredClaims.
// UserID is the local user id produced by identity sync; it is 0 when the
// token was issued with a degraded identity (store unavailable at sync time).
type Claims struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken issues a session JWT for a synced (or degraded) identity.
func GenerateToken(userID uint, email string, authCfg config.AuthConfig) (string, error) {
	jwtID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generating JWT ID: %w", err)
	}

	expirationTime := time.Now().Add(authCfg.JWTExpiry)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			ID:        jwtID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "nightout",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(authCfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken verifies a session JWT and, when a blacklist is provided,
// rejects revoked tokens. Returns the claims on success.
func ValidateToken(ctx context.Context, tokenString string, jwtKey string, blacklist TokenBlacklist) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing session token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("session token is invalid")
	}

	if blacklist != nil {
		if claims.ID == "" {
			return nil, fmt.Errorf("session token has no JTI, cannot check revocation")
		}
		isRevoked, err := blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			// Failing open would accept revoked tokens, so reject.
			return nil, fmt.Errorf("checking token blacklist: %w", err)
		}
		if isRevoked {
			return nil, fmt.Errorf("session token has been revoked")
		}
	}

	return claims, nil
}
