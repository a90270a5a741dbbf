package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/spf13/viper"
)

type AuthTokenWrapper struct {
	Username string `json:"username"`
	jwt.StandardClaims
}

func GenerateAuthToken(wrapper *AuthTokenWrapper) (string, error) {
	now := time.Now()
	ttl := viper.GetDuration(constants.ViperTokenTTLKey)
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}

	wrapper.StandardClaims = jwt.StandardClaims{
		Id:        uuid.NewString(),
		Subject:   wrapper.Username,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, wrapper)
	signed, err := token.SignedString([]byte(viper.GetString(constants.ViperSecretKey)))
	if err != nil {
		return "", fmt.Errorf("token.SignedString: %w", err)
	}
	return signed, nil
}

func ParseAuthToken(raw string) (*AuthTokenWrapper, error) {
	wrapper := &AuthTokenWrapper{}
	token, err := jwt.ParseWithClaims(raw, wrapper, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(viper.GetString(constants.ViperSecretKey)), nil
	})
	if err != nil || !token.Valid || wrapper.Username == "" {
		return nil, constants.ErrUnauthorized
	}
	return wrapper, nil
}
