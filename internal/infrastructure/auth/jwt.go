package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	userUsecases "github.com/autopro-kz/autopro/internal/application/user/usecases"
	vo "github.com/autopro-kz/autopro/internal/domain/user/valueobjects"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
)

const issuer = "autopro"

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Role vo.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// JWTService issues and verifies HS256 access tokens.
type JWTService struct {
	secret           []byte
	accessExpMinutes int
	clock            biztime.Clock
}

func NewJWTService(secret string, accessExpMinutes int, clock biztime.Clock) *JWTService {
	if accessExpMinutes <= 0 {
		accessExpMinutes = 60
	}
	return &JWTService{
		secret:           []byte(secret),
		accessExpMinutes: accessExpMinutes,
		clock:            clock,
	}
}

var _ userUsecases.TokenIssuer = (*JWTService)(nil)

// Issue returns a signed access token and its lifetime in seconds.
func (s *JWTService) Issue(userID uint, role vo.Role) (string, int64, error) {
	now := s.clock.Now()
	exp := now.Add(time.Duration(s.accessExpMinutes) * time.Minute)

	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, int64(s.accessExpMinutes * 60), nil
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Role.IsValid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AccessExpMinutes returns the access token lifetime in minutes.
func (s *JWTService) AccessExpMinutes() int {
	return s.accessExpMinutes
}
