package auth

import (
	"errors"
	"time"

	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the verified content of an access token.
type TokenClaims struct {
	UserID    kernel.UserID
	Email     kernel.Email
	ExpiresAt time.Time
}

type TokenService interface {
	ValidateAccessToken(token string) (*TokenClaims, error)
}

type jwtClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService verifies HS256 tokens signed with the secret shared with the
// identity provider. GenerateAccessToken mints tokens of the same shape for
// local development and tests.
type JWTService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewJWTService(secret string, ttl time.Duration, issuer, audience string) *JWTService {
	return &JWTService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}
}

func (s *JWTService) GenerateAccessToken(userID kernel.UserID, email kernel.Email) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		Email: email.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *JWTService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	var claims jwtClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, ErrInvalidToken().WithCause(err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken().WithCause(errors.New("token has no subject"))
	}
	// Profile ids are UUIDs; anything else could never match a row.
	if !kernel.ValidID(claims.Subject) {
		return nil, ErrInvalidToken().WithCause(errors.New("token subject is not a UUID"))
	}

	return &TokenClaims{
		UserID:    kernel.UserID(claims.Subject),
		Email:     kernel.Email(claims.Email),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
