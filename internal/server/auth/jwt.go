// Package auth issues and verifies access tokens and hashes passwords.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/cardtrack/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Issuer is written into every token and required on verification.
const Issuer = "cardtrack"

// DefaultTokenValidity is the lifetime of an access token.
const DefaultTokenValidity = 24 * time.Hour

// now is a seam for tests.
var now = time.Now

// GenerateToken signs an HS256 token whose subject is the decimal user id
// and which expires validityDuration after issuance.
func GenerateToken(userID int64, secretKey []byte, validityDuration time.Duration) (string, error) {
	if userID <= 0 {
		return "", errors.New("invalid user id")
	}

	issuedAt := now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    Issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(validityDuration)),
	})

	return token.SignedString(secretKey)
}

// GetUserIDFromToken verifies signature, algorithm, issuer and expiry and
// returns the user id from the subject claim.
//
// Expired tokens yield common.ErrTokenExpired; everything else that fails
// verification yields common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (int64, error) {
	if tokenString == "" {
		return 0, common.ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, common.ErrInvalidToken
	}
	if !token.Valid {
		return 0, common.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, common.ErrInvalidToken
	}

	return userID, nil
}
