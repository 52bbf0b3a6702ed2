// Package auth registers users, verifies passwords and issues bearer tokens.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/smith3v/lingochat/pkg/config"
	"github.com/smith3v/lingochat/pkg/db"
	"github.com/smith3v/lingochat/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("Could not verify")
	ErrMissingFields      = errors.New("Name, username and password are required")
	ErrReservedUsername   = errors.New("Usernames starting with \"telegram:\" are reserved")
)

// TelegramUsernamePrefix namespaces accounts created from Telegram chats.
const TelegramUsernamePrefix = "telegram:"

type Store interface {
	CreateUser(ctx context.Context, user *db.User) error
	UserByUsername(ctx context.Context, username string) (*db.User, error)
}

type SignupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Service struct {
	store  Store
	issuer *Issuer
	cost   int
}

func NewService(store Store, cfg config.AuthConfig) *Service {
	return &Service{
		store:  store,
		issuer: NewIssuer(cfg.JWTSecret, cfg.TokenTTL()),
		cost:   cfg.BcryptCost,
	}
}

// Signup creates a user. A taken username yields db.ErrUsernameTaken; the
// Telegram namespace yields ErrReservedUsername.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*db.User, error) {
	username := strings.TrimSpace(req.Username)
	name := strings.TrimSpace(req.Name)
	if username == "" || name == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if strings.HasPrefix(strings.ToLower(username), TelegramUsernamePrefix) {
		return nil, ErrReservedUsername
	}

	hash, err := HashPassword(req.Password, s.cost)
	if err != nil {
		return nil, err
	}
	user := &db.User{Username: username, Name: name, PasswordHash: hash}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login checks credentials and returns a signed token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.UserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, db.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	return s.issuer.Issue(user.Username)
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*db.User, error) {
	username, err := s.issuer.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.store.UserByUsername(ctx, username)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	return user, err
}
