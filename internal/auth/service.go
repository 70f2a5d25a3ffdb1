package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service checks the operator password and issues tokens.
type Service struct {
	passwordHash []byte
	tokens       *TokenService
}

// NewService creates an auth Service. passwordHash is a bcrypt hash of the
// operator password; an empty hash disables authentication entirely.
func NewService(passwordHash string, tokens *TokenService) *Service {
	return &Service{passwordHash: []byte(passwordHash), tokens: tokens}
}

// Enabled reports whether a password hash is configured.
func (s *Service) Enabled() bool {
	return len(s.passwordHash) > 0
}

// Login verifies the operator password and returns a signed access token.
func (s *Service) Login(password string) (string, error) {
	if !s.Enabled() {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.IssueAccessToken()
}

// Tokens returns the underlying token service.
func (s *Service) Tokens() *TokenService {
	return s.tokens
}

// HashPassword produces a bcrypt hash suitable for the auth.password_hash
// config key. Used by the pidash hash-password subcommand.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
