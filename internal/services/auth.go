package services

import (
	"fmt"
	"strings"

	"github.com/0VAN/lms/internal/models"
	"github.com/0VAN/lms/internal/store"
)

// ─── Service Interface ────────────────────────────────────────────────────────

// AuthService handles the user lifecycle and token management. Every user it
// returns is sanitized: the password never leaves this package.
type AuthService interface {
	Register(input RegisterInput) (models.User, error)
	Login(email, password string) (*Session, error)
	Logout(token string)
	CurrentUser(token string) (*models.User, error)
}

// RegisterInput carries raw registration fields. Role is the raw string so
// the service owns validation; empty means member.
type RegisterInput struct {
	Email    string
	Password string
	Role     string
}

// Session is the result of a successful login.
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// ─── Implementation ───────────────────────────────────────────────────────────

type authService struct {
	store *store.Store
}

func NewAuthService(st *store.Store) AuthService {
	return &authService{store: st}
}

// Register creates a user. The email-uniqueness check and the insert run
// inside one store transaction so two racing registrations cannot both win.
func (s *authService) Register(input RegisterInput) (models.User, error) {
	role, ok := models.ParseRole(input.Role)
	if !ok {
		return models.User{}, fmt.Errorf("%w: role must be librarian or member", ErrValidation)
	}
	if strings.TrimSpace(input.Email) == "" {
		return models.User{}, fmt.Errorf("%w: email required", ErrValidation)
	}
	if strings.TrimSpace(input.Password) == "" {
		return models.User{}, fmt.Errorf("%w: password required", ErrValidation)
	}

	var user models.User
	err := s.store.Transact(func(tx *store.Tx) error {
		if _, exists := tx.FindUserByEmail(input.Email); exists {
			return ErrEmailTaken
		}
		user = tx.CreateUser(input.Email, input.Password, role)
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user.Sanitized(), nil
}

// Login compares the password exactly as stored and issues a fresh token on
// match. Multiple live tokens per user may coexist.
func (s *authService) Login(email, password string) (*Session, error) {
	var session *Session
	err := s.store.Transact(func(tx *store.Tx) error {
		user, ok := tx.FindUserByEmail(email)
		if !ok || user.Password != password {
			return ErrInvalidCredentials
		}
		session = &Session{
			Token: tx.IssueToken(user.ID),
			User:  user.Sanitized(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Logout revokes the token. Revoking an unknown token is a no-op.
func (s *authService) Logout(token string) {
	s.store.RevokeToken(token)
}

// CurrentUser resolves a bearer token to its sanitized user.
func (s *authService) CurrentUser(token string) (*models.User, error) {
	var user models.User
	err := s.store.Transact(func(tx *store.Tx) error {
		userID, ok := tx.TokenOwner(token)
		if !ok {
			return ErrInvalidToken
		}
		u, ok := tx.FindUser(userID)
		if !ok {
			return ErrInvalidToken
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}
