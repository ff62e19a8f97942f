package services

import (
	"fmt"
	"strconv"
	"time"

	"brightnest/config"
	"brightnest/internal/logger"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenIssuer     = "brightnest"
	DefaultTokenTTL = 24 * time.Hour
)

// AuthService signs and validates the session tokens used by both the HTTP
// middleware and the websocket auth handshake.
type AuthService struct {
	secret []byte
	log    logger.Logger
}

func NewAuthService(config config.Config) (*AuthService, error) {
	log := logger.New("authService")

	if config.JWTSecret == "" {
		return nil, log.ErrMsg("JWT secret is not configured")
	}

	return &AuthService{
		secret: []byte(config.JWTSecret),
		log:    log,
	}, nil
}

func (s *AuthService) GenerateToken(userID int, ttl time.Duration) (string, error) {
	log := s.log.Function("GenerateToken")

	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    TokenIssuer,
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", log.Err("failed to sign token", err, "userID", userID)
	}

	return signed, nil
}

// ValidateToken returns the user ID the token was issued for.
func (s *AuthService) ValidateToken(tokenString string) (int, error) {
	log := s.log.Function("ValidateToken")

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, log.Err("token validation failed", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return 0, log.ErrMsg("invalid token claims")
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, log.Err("token subject is not a user id", err, "subject", claims.Subject)
	}

	return userID, nil
}
