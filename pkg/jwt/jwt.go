package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"passcode-app/internal/config"
	domain "passcode-app/internal/domain/user"
)

// Claims описывает пейлоад access-токена, выдаваемого после проверки кода.
type Claims struct {
	UserUUID string `json:"sub"`
	jwt.RegisteredClaims
}

// Service инкапсулирует выпуск и проверку access-токенов.
type Service interface {
	GenerateAccessToken(user *domain.User) (string, time.Time, error)
	ParseAccessToken(tokenString string) (*Claims, error)
}

type service struct {
	cfg *config.JWTConfig
	now func() time.Time
}

// NewService создаёт JWT-сервис на основе конфигурации.
func NewService(cfg *config.JWTConfig) Service {
	return &service{cfg: cfg, now: time.Now}
}

// GenerateAccessToken выпускает access-токен и возвращает время его истечения.
func (s *service) GenerateAccessToken(user *domain.User) (string, time.Time, error) {
	now := s.now().UTC()
	expires := now.Add(s.cfg.AccessTTL)

	claims := &Claims{
		UserUUID: user.UUID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.AccessSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// ParseAccessToken парсит и валидирует access-токен.
func (s *service) ParseAccessToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.AccessSecret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.UserUUID == "" {
		return nil, errors.Join(jwt.ErrTokenInvalidClaims, errors.New("empty subject"))
	}

	return claims, nil
}
