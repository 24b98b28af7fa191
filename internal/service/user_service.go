package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"eventmate/internal/domain"
	"eventmate/internal/repository"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when attempting to register with an existing username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned when the user referenced by a token no longer exists.
	ErrUserNotFound = errors.New("user not found")
)

const minPasswordLength = 6

// SignUpInput carries the fields of a new account.
type SignUpInput struct {
	Name      string
	Username  string
	Email     string
	Password  string
	AdminCode string
}

// ProfileInput carries the editable profile fields. Empty Name or Username
// keep the stored value; a nil Email keeps it and an empty one clears it.
type ProfileInput struct {
	Name     string
	Username string
	Email    *string
}

// UserService describes user lifecycle operations.
type UserService interface {
	SignUp(ctx context.Context, in SignUpInput) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, in ProfileInput) (*domain.User, error)
}

type userService struct {
	users      repository.UserRepository
	adminCode  string
	bcryptCost int
}

// NewUserService builds a UserService. Sign-ups presenting adminCode
// (case-insensitive) become admins; an empty adminCode disables that path.
func NewUserService(users repository.UserRepository, adminCode string) UserService {
	return &userService{
		users:      users,
		adminCode:  strings.ToLower(strings.TrimSpace(adminCode)),
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *userService) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	password := strings.TrimSpace(in.Password)

	verr := &ValidationError{}
	if name == "" {
		verr.add("name is required")
	}
	if username == "" {
		verr.add("username is required")
	}
	if password == "" {
		verr.add("password is required")
	} else if len(password) < minPasswordLength {
		verr.add(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			verr.add("email is invalid")
		}
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         s.roleFor(in.AdminCode),
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) roleFor(code string) domain.Role {
	if s.adminCode == "" {
		return domain.RoleUser
	}
	provided := strings.ToLower(strings.TrimSpace(code))
	if subtle.ConstantTimeCompare([]byte(provided), []byte(s.adminCode)) == 1 {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, id int64, in ProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	verr := &ValidationError{}
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if username := strings.TrimSpace(in.Username); username != "" {
		user.Username = username
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != "" {
			if _, err := mail.ParseAddress(email); err != nil {
				verr.add("email is invalid")
			}
		}
		user.Email = email
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrUserAlreadyExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Name:      user.Name,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
