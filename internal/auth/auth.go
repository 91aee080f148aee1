// Package auth verifies the single driver account's credentials and issues
// the signed bearer tokens that protect the API.
package auth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/drivebook/backend/internal/domain"
)

// Config carries the credential and token settings an Authenticator needs.
type Config struct {
	// Username is the login name of the driver account.
	Username string

	// PasswordHash is the account's bcrypt hash. Takes precedence over
	// Password when both are set.
	PasswordHash string

	// Password is a plaintext password to hash at construction time, for
	// setups that don't pre-hash.
	Password string

	// TokenSecret is the HMAC key tokens are signed with.
	TokenSecret string

	// TokenTTL is how long issued tokens stay valid.
	TokenTTL time.Duration
}

// Session is an issued bearer token and its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Authenticator checks login credentials and mints and verifies session
// tokens. Tokens are HS256 JWTs carrying the username as subject, a unique
// token id, and issue and expiry timestamps. All methods are safe for
// concurrent use; the Authenticator is immutable after New.
type Authenticator struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
}

// New builds an Authenticator from cfg. The plaintext password, when that is
// the form provided, is hashed here once and discarded.
func New(cfg Config) (*Authenticator, error) {
	if cfg.Username == "" {
		return nil, fmt.Errorf("auth.New: username must not be empty")
	}
	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("auth.New: token secret must not be empty")
	}

	hash := []byte(cfg.PasswordHash)
	if len(hash) > 0 {
		if _, err := bcrypt.Cost(hash); err != nil {
			return nil, fmt.Errorf("auth.New: password hash is not a bcrypt hash: %w", err)
		}
	} else {
		if cfg.Password == "" {
			return nil, fmt.Errorf("auth.New: either a password hash or a password is required")
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("auth.New: %w", err)
		}
	}

	return &Authenticator{
		username:     cfg.Username,
		passwordHash: hash,
		secret:       []byte(cfg.TokenSecret),
		ttl:          cfg.TokenTTL,
	}, nil
}

// Login checks the supplied credentials against the configured account and
// returns a fresh Session. Wrong username and wrong password both map to
// domain.ErrUnauthorized without distinguishing which was wrong.
func (a *Authenticator) Login(username, password string) (Session, error) {
	nameOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !nameOK || passErr != nil {
		return Session{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	now := time.Now()
	expiresAt := now.Add(a.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   a.username,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return Session{}, fmt.Errorf("auth.Authenticator.Login: %w", err)
	}

	return Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Verify parses and validates a bearer token and returns its subject.
// Expired, malformed, or foreign-signed tokens map to domain.ErrUnauthorized.
func (a *Authenticator) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	return claims.Subject, nil
}
