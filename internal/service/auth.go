package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/retrocade/retrocade/internal/model"
	"github.com/retrocade/retrocade/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService gates admin operations behind a single operator account.
// Issued tokens live in the token repository until logout, expiry or eviction.
type AuthService struct {
	tokenRepository repository.TokenRepository
	username        string
	passwordHash    []byte
	secret          []byte
	tokenExpiry     time.Duration
}

type AuthConfig struct {
	Username     string
	Password     string
	PasswordHash string // bcrypt; used instead of Password when set
	Secret       string // token signing key; random when empty
	TokenExpiry  time.Duration
}

func NewAuthService(tokenRepository repository.TokenRepository, cfg AuthConfig) (*AuthService, error) {
	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(cfg.Password)), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
	}

	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		_, err := rand.Read(secret)
		if err != nil {
			return nil, fmt.Errorf("failed to generate token secret: %w", err)
		}
	}

	return &AuthService{
		tokenRepository: tokenRepository,
		username:        foldUsername(cfg.Username),
		passwordHash:    hash,
		secret:          secret,
		tokenExpiry:     cfg.TokenExpiry,
	}, nil
}

func foldUsername(username string) string {
	return cases.Fold().String(strings.TrimSpace(username))
}

// Login checks the operator credentials and returns a new bearer token.
func (s *AuthService) Login(username, password string) (string, error) {
	username = foldUsername(username)
	password = strings.TrimSpace(password)

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	// Always run bcrypt so a wrong username costs the same as a wrong password
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return "", ErrInvalidCredentials
	}

	return s.GenerateToken()
}

// GenerateToken mints a signed token (issue time + random id) and registers it.
func (s *AuthService) GenerateToken() (string, error) {
	id := make([]byte, 16)
	_, err := rand.Read(id)
	if err != nil {
		return "", err
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenExpiry)
	claims := jwt.MapClaims{
		"jti": hex.EncodeToString(id),
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}

	err = s.tokenRepository.Create(&model.Token{
		Value:     tokenString,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return tokenString, nil
}

// Verify accepts a token only if it carries our signature and has not been revoked.
func (s *AuthService) Verify(tokenString string) error {
	if tokenString == "" {
		return ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	ok, err := s.tokenRepository.Exists(tokenString)
	if err != nil {
		return fmt.Errorf("failed to look up token: %w", err)
	}
	if !ok {
		return ErrInvalidToken
	}

	return nil
}

// Logout revokes the token. Unknown tokens are ignored.
func (s *AuthService) Logout(tokenString string) error {
	if tokenString == "" {
		return nil
	}
	return s.tokenRepository.Delete(tokenString)
}
