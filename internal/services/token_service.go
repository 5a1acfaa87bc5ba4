package services

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"budgetron/internal/config"
	"budgetron/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token is expired")
	ErrInvalidIssuer     = errors.New("invalid issuer")
	ErrInvalidTokenType  = errors.New("invalid token type")
	ErrEmptyToken        = errors.New("empty token")
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")
)

const bearerScheme = "Bearer"

// TokenService signs and verifies session tokens with RS256
type TokenService struct {
	issuer    string
	signKey   *rsa.PrivateKey
	verifyKey *rsa.PublicKey
	lifetimes map[models.TokenKind]time.Duration
	now       func() time.Time
}

func NewTokenService(cfg *config.JWTConfig) TokenServiceInterface {
	return &TokenService{
		issuer:    cfg.Issuer,
		signKey:   cfg.PrivateKey,
		verifyKey: cfg.PublicKey,
		lifetimes: map[models.TokenKind]time.Duration{
			models.TokenKindAccess:  cfg.AccessTokenDuration,
			models.TokenKindRefresh: cfg.RefreshTokenDuration,
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// GenerateAccessToken names the user and the roles held at login. Guards
// reload the user on every request, so the roles here are informational.
func (ts *TokenService) GenerateAccessToken(user *models.User) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, errors.New("user cannot be nil")
	}
	return ts.sign(models.SessionClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Roles:    user.RoleNames(),
		Kind:     models.TokenKindAccess,
	})
}

func (ts *TokenService) GenerateRefreshToken(userID uuid.UUID) (string, time.Time, error) {
	if userID == uuid.Nil {
		return "", time.Time{}, errors.New("user ID cannot be nil")
	}
	return ts.sign(models.SessionClaims{
		UserID: userID.String(),
		Kind:   models.TokenKindRefresh,
	})
}

func (ts *TokenService) ValidateAccessToken(raw string) (*models.SessionClaims, error) {
	return ts.verify(raw, models.TokenKindAccess)
}

func (ts *TokenService) ValidateRefreshToken(raw string) (*models.SessionClaims, error) {
	return ts.verify(raw, models.TokenKindRefresh)
}

// ExtractTokenFromHeader returns the credentials of a "Bearer <token>"
// Authorization header. The scheme is matched case-insensitively.
func (ts *TokenService) ExtractTokenFromHeader(header string) (string, error) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", ErrInvalidAuthHeader
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidAuthHeader
	}
	return token, nil
}

// sign stamps issuer, subject, a fresh jti and the lifetime of the claims'
// kind, then signs them.
func (ts *TokenService) sign(claims models.SessionClaims) (string, time.Time, error) {
	issuedAt := ts.now()
	expiresAt := issuedAt.Add(ts.lifetimes[claims.Kind])

	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    ts.issuer,
		Subject:   claims.UserID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(ts.signKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", claims.Kind, err)
	}
	return signed, expiresAt, nil
}

// verify checks signature, algorithm, issuer and lifetime through the jwt
// parser, then the session kind and the subject.
func (ts *TokenService) verify(raw string, kind models.TokenKind) (*models.SessionClaims, error) {
	if raw == "" {
		return nil, ErrEmptyToken
	}

	claims := &models.SessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return ts.verifyKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(ts.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return nil, ErrInvalidIssuer
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Kind != kind {
		return nil, ErrInvalidTokenType
	}
	if _, err := claims.Owner(); err != nil {
		return nil, fmt.Errorf("%w: malformed user id", ErrInvalidToken)
	}
	return claims, nil
}
