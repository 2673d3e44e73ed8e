package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"Tunebox/config"
	"Tunebox/core/auth"
	"Tunebox/logger"
	"Tunebox/model"
	"Tunebox/repository"
)

var (
	// ErrMissingCredentials is returned when login or password is empty.
	ErrMissingCredentials = errors.New("login and password are required")
	// ErrLoginTaken is returned when registering an existing login.
	ErrLoginTaken = errors.New("login already taken")
	// ErrInvalidCredentials is returned for an unknown login and for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid login or password")
	// ErrUserNotFound is returned when a token refers to a user that no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentialFormat is returned when a login or password exceeds its limit.
	ErrInvalidCredentialFormat = errors.New("invalid credentials format")
)

const (
	// MaxLoginLength matches the users.login column size.
	MaxLoginLength = 100
	// MaxPasswordBytes is the longest password bcrypt accepts.
	MaxPasswordBytes = 72
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string        `json:"token"`
	User  model.Profile `json:"user"`
}

// Service implements registration, login and the admin bootstrap.
type Service struct {
	users      repository.UserRepository
	tokens     *auth.TokenService
	bcryptCost int
}

// NewService creates a Service.
func NewService(users repository.UserRepository, tokens *auth.TokenService, bcryptCost int) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register creates a user-role account.
func (s *Service) Register(ctx context.Context, login, password string) (*model.Profile, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if utf8.RuneCountInString(login) > MaxLoginLength {
		return nil, fmt.Errorf("%w: login must be at most %d characters", ErrInvalidCredentialFormat, MaxLoginLength)
	}
	if len(password) > MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidCredentialFormat, MaxPasswordBytes)
	}

	existing, err := s.users.GetUserByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrLoginTaken, login)
	}

	user, err := s.create(ctx, login, password, model.RoleUser)
	if err != nil {
		return nil, err
	}

	logger.Info("[Register] user created", logger.String("login", login), logger.Int64("userId", user.ID))
	profile := user.Profile()
	return &profile, nil
}

// Login checks the credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.GetUserByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		logger.Warn("[Login] unknown login", logger.String("login", login))
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		logger.Warn("[Login] wrong password", logger.String("login", login))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	logger.Info("[Login] success", logger.String("login", login))
	return &LoginResult{Token: token, User: user.Profile()}, nil
}

// Profile returns the public profile of the user with the given id.
func (s *Service) Profile(ctx context.Context, userID int64) (*model.Profile, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}
	profile := user.Profile()
	return &profile, nil
}

// SeedAdmin creates the admin account unless a user with that login exists.
// It reports whether an account was created.
func (s *Service) SeedAdmin(ctx context.Context, login, password string) (bool, error) {
	existing, err := s.users.GetUserByLogin(ctx, login)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if auth.CheckPasswordHash(config.DefaultAdminPassword, existing.PasswordHash) {
			logger.Warn("Admin account still uses the default password", logger.String("login", login))
		}
		return false, nil
	}

	if password == config.DefaultAdminPassword {
		logger.Warn("Seeding admin account with the default password; set ADMIN_PASSWORD",
			logger.String("login", login))
	}
	if _, err := s.create(ctx, login, password, model.RoleAdmin); err != nil {
		// Another process seeded it first.
		if errors.Is(err, ErrLoginTaken) {
			return false, nil
		}
		return false, err
	}

	logger.Info("Seeded admin account", logger.String("login", login))
	return true, nil
}

func (s *Service) create(ctx context.Context, login, password, role string) (*model.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Login:        login,
		PasswordHash: hash,
		Role:         role,
	}
	if _, err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, fmt.Errorf("%w: %s", ErrLoginTaken, login)
		}
		return nil, err
	}
	return user, nil
}
