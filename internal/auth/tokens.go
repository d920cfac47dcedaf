package auth

import (
	"errors"
	"time"

	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"github.com/Izumi-Yuya/shicecal-sub015/params"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/cast"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// TokenIssuer mints and verifies the HS256 bearer tokens used by non-browser
// API clients. Browser traffic authenticates with sessions instead.
type TokenIssuer struct {
	secret []byte
	issuer string
}

func NewTokenIssuer(secret string, issuer string) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		issuer: issuer,
	}
}

type TokenClaims struct {
	UserID uint
	Role   string
}

func (i *TokenIssuer) Issue(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  cast.ToString(user.ID),
		"role": user.Role,
		"iss":  i.issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(params.APITokenExpiration).Unix(),
		"jti":  uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *TokenIssuer) Verify(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	}, jwt.WithIssuer(i.issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID := cast.ToUint(claims["sub"])
	if userID == 0 {
		return nil, ErrInvalidToken
	}
	return &TokenClaims{
		UserID: userID,
		Role:   cast.ToString(claims["role"]),
	}, nil
}
