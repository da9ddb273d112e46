package service

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const securityTokenIssuer = "seletivo-invite"

var errEmptyTokenSecret = errors.New("invite token secret is empty")

// SecurityToken is an HS256 JWT over the candidate id with no time claims,
// so one candidate always gets the same value. It is a tamper check on
// later requests, not a login credential.
func SecurityToken(secret string, candidateID uuid.UUID) (string, error) {
	if secret == "" {
		return "", errEmptyTokenSecret
	}
	claims := jwt.RegisteredClaims{
		Issuer:  securityTokenIssuer,
		Subject: candidateID.String(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign security token: %w", err)
	}
	return tok, nil
}

// VerifySecurityToken reports whether token was issued for candidateID.
func VerifySecurityToken(secret, token string, candidateID uuid.UUID) bool {
	if secret == "" || token == "" {
		return false
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return false
	}
	return claims.Issuer == securityTokenIssuer && claims.Subject == candidateID.String()
}
