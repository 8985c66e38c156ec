package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sitecraft/website-builder/internal/core/domain"
	"github.com/sitecraft/website-builder/internal/core/ports"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// dummyHash is compared against when the email is unknown so that login takes
// the same time whether or not the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), bcrypt.DefaultCost)

// AuthService implements signup and login.
type AuthService struct {
	users    ports.UserRepository
	roles    ports.RoleRepository
	sessions ports.SessionService
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(users ports.UserRepository, roles ports.RoleRepository, sessions ports.SessionService, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, roles: roles, sessions: sessions, log: log, now: time.Now}
}

// Signup registers a new user under roleName (Viewer when empty) and returns a session token.
func (s *AuthService) Signup(ctx context.Context, email, password, roleName string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: email is not valid", domain.ErrValidation)
	}
	if len(password) > maxPasswordBytes {
		return "", fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, maxPasswordBytes)
	}
	if roleName == "" {
		roleName = domain.RoleViewer
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", fmt.Errorf("signup: %w", err)
	}

	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return "", domain.ErrUnknownRole
		}
		return "", fmt.Errorf("signup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err != nil {
		return "", fmt.Errorf("signup: hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// The unique index catches a concurrent signup that passed the lookup above.
		return "", err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", role.Name).Msg("user signed up")
	return s.sessions.Issue(created.ID, role.ID)
}

// Login verifies credentials and returns a session token. Unknown email and wrong
// password are both reported as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return s.sessions.Issue(user.ID, user.RoleID)
}
