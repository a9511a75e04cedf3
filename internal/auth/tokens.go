package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// TokenPair is the token issue response.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type tokenClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
}

// Issuer signs and verifies bearer tokens with a shared secret.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Issue returns a fresh access and refresh token for userID.
func (i *Issuer) Issue(userID int64) (TokenPair, error) {
	access, err := i.sign(userID, TokenAccess, i.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.sign(userID, TokenRefresh, i.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (i *Issuer) Refresh(refreshToken string) (string, error) {
	userID, err := i.Verify(refreshToken, TokenRefresh)
	if err != nil {
		return "", err
	}
	return i.sign(userID, TokenAccess, i.accessTTL)
}

// Verify checks signature, expiry and token type, and returns the user id.
func (i *Issuer) Verify(token, tokenType string) (int64, error) {
	if token == "" {
		return 0, Unauthorized("token is required")
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, Unauthorized("token is expired")
		}
		return 0, Unauthorized("token is invalid")
	}

	if claims.TokenType != tokenType {
		return 0, Unauthorized("token has wrong type")
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, Unauthorized("token subject is invalid")
	}
	return userID, nil
}

func (i *Issuer) sign(userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: tokenType,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}
