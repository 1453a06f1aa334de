package service

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService decodes bearer credentials issued by the auth system into a
// user email. Token issuance lives outside this service.
type TokenService interface {
	Decode(token string) (string, error)
}

type tokenService struct {
	secret string
}

func NewTokenService(secret string) TokenService {
	return &tokenService{secret: secret}
}

func (s *tokenService) Decode(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("malformed claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}
