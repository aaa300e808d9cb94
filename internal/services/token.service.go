package services

import (
	"errors"
	"fmt"
	"time"
	"voxadmin/config"
	"voxadmin/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "voxadmin"

// AccessClaims is the payload of an access token. Subject holds the user id.
type AccessClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	log    logger.Logger
}

func NewTokenService(cfg config.Config) *TokenService {
	ttlHours := cfg.JWTTTLHours
	if ttlHours <= 0 {
		ttlHours = config.DefaultJWTTTLHours
	}

	return &TokenService{
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(ttlHours) * time.Hour,
		log:    logger.New("tokenService"),
	}
}

// Generate issues an HS256 access token for the user.
func (s *TokenService) Generate(userID uuid.UUID, username string) (string, time.Time, error) {
	log := s.log.Function("Generate")

	if userID == uuid.Nil {
		return "", time.Time{}, log.Err("user id is required", types.ErrInvalidInput)
	}

	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := AccessClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, log.Err("failed to sign token", err, "userID", userID)
	}

	return signed, expiresAt, nil
}

// Validate parses tokenString and returns the identity it carries. Any
// signature, expiry or claim problem yields ErrUnauthorized.
func (s *TokenService) Validate(tokenString string) (*types.TokenInfo, error) {
	log := s.log.Function("Validate")

	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		log.Debug("token rejected", "error", err)
		return nil, types.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		log.Debug("token subject is not a user id", "subject", claims.Subject)
		return nil, types.ErrUnauthorized
	}

	return &types.TokenInfo{
		UserID:   userID,
		Username: claims.Username,
		Valid:    true,
	}, nil
}
