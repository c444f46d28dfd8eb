package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
)

// Claims are the access token claims. The subject is the acting identity.
type Claims struct {
	IdentityID string `json:"identity_id"`
	jwt.RegisteredClaims
}

// Service signs and validates actor access tokens.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewService(signingKey, issuer, audience string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

func (s *Service) GenerateAccessToken(identityID id.IdentityID, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		IdentityID: identityID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken parses and verifies the token, returning the acting
// identity's id.
func (s *Service) ValidateToken(tokenString string) (id.IdentityID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return id.IdentityID{}, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return id.IdentityID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return id.IdentityID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	actorID, err := id.ParseIdentityID(claims.IdentityID)
	if err != nil || actorID.IsNil() {
		return id.IdentityID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject")
	}
	return actorID, nil
}
