package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService issues and validates the bearer tokens for the status API
type AuthService struct {
	secretKey   string
	tokenExpiry time.Duration
}

// APIClaims is the token claims structure
type APIClaims struct {
	ServerName string `json:"server_name"`
	jwt.RegisteredClaims
}

// NewAuthService creates an auth service. An empty secret generates an
// ephemeral random key: tokens then survive only for this process run,
// which is the right default for a localhost status API.
func NewAuthService(secretKey string, tokenExpiry time.Duration) *AuthService {
	if secretKey == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "machmon"
		}

		randomBytes := make([]byte, 24)
		if _, err := rand.Read(randomBytes); err != nil {
			secretKey = fmt.Sprintf("machmon-%s-%d", hostname, time.Now().UnixNano())
			log.Printf("[AUTH] Warning: random generation failed, using fallback key")
		} else {
			secretKey = fmt.Sprintf("machmon-%s-%s", hostname, hex.EncodeToString(randomBytes))
		}
		log.Printf("[AUTH] Generated ephemeral API token secret (length: %d bytes)", len(secretKey))
	}

	if tokenExpiry == 0 {
		tokenExpiry = 24 * time.Hour
	}

	return &AuthService{
		secretKey:   secretKey,
		tokenExpiry: tokenExpiry,
	}
}

// GenerateToken creates a new signed token for the given server name
func (a *AuthService) GenerateToken(serverName string) (string, error) {
	now := time.Now()
	claims := APIClaims{
		ServerName: serverName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "machmon",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.secretKey))
}

// ValidateToken verifies and parses a token
func (a *AuthService) ValidateToken(tokenString string) (*APIClaims, error) {
	claims := &APIClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// TokenExpiry returns when a token issued now would expire
func (a *AuthService) TokenExpiry() time.Time {
	return time.Now().Add(a.tokenExpiry)
}
