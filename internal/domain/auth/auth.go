// Package auth implements the mocked login check: a static account table
// with password verification and signed session tokens. There is no user
// store behind it and no registration; the two demo accounts are fixed.
package auth

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown username or a wrong
// password. Deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrInvalidToken is returned when a session token fails verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// Role gates UI surfaces: the dashboard is admin-only.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWaiter Role = "waiter"
)

// User is a staff account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}

// Claims is the token payload.
type Claims struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	jwt.StandardClaims
}

type account struct {
	user         User
	passwordHash []byte
}

// Service verifies credentials against the static account table and issues
// session tokens.
type Service struct {
	accounts map[string]account
	secret   []byte
	ttl      time.Duration
}

// demo password shared by both mock accounts.
const demoPassword = "123456"

// NewService creates the auth service with the two demo accounts. Password
// hashes are derived at startup; the accounts are mock data, not secrets.
func NewService(secret []byte, ttl time.Duration) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash demo password")
	}

	users := []User{
		{ID: "1", Username: "admin", Name: "Nguyễn Văn A", Role: RoleAdmin, Avatar: "/avatars/admin.jpg"},
		{ID: "2", Username: "waiter", Name: "Trần Văn B", Role: RoleWaiter, Avatar: "/avatars/waiter.jpg"},
	}
	accounts := make(map[string]account, len(users))
	for _, u := range users {
		accounts[u.Username] = account{user: u, passwordHash: hash}
	}

	return &Service{accounts: accounts, secret: secret, ttl: ttl}, nil
}

// Login verifies the credentials and returns the user plus a signed token.
// Usernames are matched case-insensitively.
func (s *Service) Login(username, password string) (*User, string, error) {
	acct, ok := s.accounts[strings.ToLower(username)]
	if !ok {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	claims := &Claims{
		Username: acct.user.Username,
		Name:     acct.user.Name,
		Role:     acct.user.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(s.ttl).Unix(),
			IssuedAt:  time.Now().Unix(),
			Subject:   acct.user.ID,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, "", errors.Wrap(err, "sign token")
	}

	u := acct.user
	return &u, token, nil
}

// ValidateToken parses and verifies a session token.
func (s *Service) ValidateToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt < time.Now().Unix() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UserByUsername returns the account behind a validated token's username.
func (s *Service) UserByUsername(username string) (*User, bool) {
	acct, ok := s.accounts[strings.ToLower(username)]
	if !ok {
		return nil, false
	}
	u := acct.user
	return &u, true
}
