package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/safar/nava-store/internal/database"
	"github.com/safar/nava-store/internal/models"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid registration details")
	ErrPasswordTooLong    = errors.New("password is too long")
)

// UserRepository is the user persistence the identity service needs.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type Service struct {
	users  UserRepository
	hasher PasswordHasher
	logger *zap.Logger
}

func NewService(users UserRepository, hasher PasswordHasher, logger *zap.Logger) *Service {
	return &Service{users: users, hasher: hasher, logger: logger}
}

// Register creates a shopper account.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.createUser(ctx, name, email, password, false)
}

// CreateAdmin creates an administrator account.
func (s *Service) CreateAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.createUser(ctx, name, email, password, true)
}

func (s *Service) createUser(ctx context.Context, name, email, password string, admin bool) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, database.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash, IsAdmin: admin}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.Bool("admin", admin))
	return user, nil
}

// Login checks email and password and returns the matching actor.
func (s *Service) Login(ctx context.Context, email, password string) (Actor, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return Anonymous(), err
	}
	return actorFor(user), nil
}

// AdminLogin is Login restricted to administrator accounts.
func (s *Service) AdminLogin(ctx context.Context, email, password string) (Actor, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return Anonymous(), err
	}
	if !user.IsAdmin {
		s.logger.Warn("admin login refused", zap.Int64("user_id", user.ID))
		return Anonymous(), ErrInvalidCredentials
	}
	return actorFor(user), nil
}

func (s *Service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func actorFor(user *models.User) Actor {
	role := RoleShopper
	if user.IsAdmin {
		role = RoleAdmin
	}
	return Actor{Role: role, UserID: user.ID, Name: user.Name, Email: user.Email}
}
