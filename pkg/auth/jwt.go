package auth

import (
	"errors"
	"time"

	"bj-service/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongScope   = errors.New("token scope not allowed")
)

const (
	ScopeAuditor = "auditor"

	issuer = "bj-service"
)

type Claims struct {
	SubjectID int64  `json:"subjectId"`
	Scope     string `json:"scope"`
	jwt.RegisteredClaims
}

func GenerateAuditorToken(subjectID int64) (string, error) {
	return IssueToken(subjectID, ScopeAuditor, time.Now())
}

func ParseAuditorToken(tokenString string) (*Claims, error) {
	return ParseScopedToken(tokenString, ScopeAuditor)
}

// IssueToken signs an HS256 token for subjectID limited to scope, valid for
// jwt.expire hours from now.
func IssueToken(subjectID int64, scope string, now time.Time) (string, error) {
	conf := config.GlobalConfig.JWT
	claims := Claims{
		SubjectID: subjectID,
		Scope:     scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   scope,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(conf.Expire) * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(conf.Secret))
}

// ParseScopedToken verifies signature and expiry and requires one of the
// given scopes.
func ParseScopedToken(tokenString string, scopes ...string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(config.GlobalConfig.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	for _, scope := range scopes {
		if claims.Scope == scope {
			return &claims, nil
		}
	}
	return nil, ErrWrongScope
}
