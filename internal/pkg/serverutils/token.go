package serverutils

import (
	"time"

	"fundoo-notes-be/internal/constant"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager signs and parses the HS256 tokens used for API access and
// email verification links. The two purposes are distinct claims so one
// token can never stand in for the other.
type TokenManager struct {
	secret       []byte
	accessExpiry time.Duration
	verifyExpiry time.Duration
}

type appClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

func NewTokenManager(secret string, accessExpiry, verifyExpiry time.Duration) *TokenManager {
	return &TokenManager{
		secret:       []byte(secret),
		accessExpiry: accessExpiry,
		verifyExpiry: verifyExpiry,
	}
}

func (t *TokenManager) IssueAccessToken(userId uuid.UUID) (string, error) {
	return t.issue(userId, constant.TokenPurposeAccess, t.accessExpiry)
}

func (t *TokenManager) IssueVerificationToken(userId uuid.UUID) (string, error) {
	return t.issue(userId, constant.TokenPurposeVerification, t.verifyExpiry)
}

func (t *TokenManager) issue(userId uuid.UUID, purpose string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := appClaims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse validates signature, expiry and purpose, returning the subject
// user id.
func (t *TokenManager) Parse(tokenString string, purpose string) (uuid.UUID, error) {
	var claims appClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrUnauthorized
	}

	if claims.Purpose != purpose {
		return uuid.Nil, ErrUnauthorized
	}

	userId, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}

	return userId, nil
}
