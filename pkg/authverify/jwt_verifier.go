package authverify

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTVerifier validates provider-signed HS256 access tokens locally. This is
// the default path and avoids a network hop per request.
type JWTVerifier struct {
	secret []byte
}

var _ Verifier = &JWTVerifier{}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	subject, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}

	identity := &Identity{Subject: subject}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		identity.Metadata = meta
	}
	return identity, nil
}
