package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openchat-labs/chat-backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthService handles login, sessions and profile lookup
type AuthService struct {
	users      domain.UserRepository
	sessions   domain.SessionStore
	sessionTTL time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(users domain.UserRepository, sessions domain.SessionStore, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

// LoginWithEmail resolves a user by email and opens a session for them.
// There is no credential check beyond the lookup; this mirrors the
// behavior the frontend depends on.
func (s *AuthService) LoginWithEmail(ctx context.Context, email string) (*domain.User, *domain.Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	session, err := s.StartSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// StartSession issues an opaque token and persists a session embedding a
// snapshot of the user. The snapshot is fixed for the session lifetime.
func (s *AuthService) StartSession(ctx context.Context, user *domain.User) (*domain.Session, error) {
	now := time.Now()
	session := &domain.Session{
		Token: uuid.NewString(),
		User: domain.SessionUser{
			ID:       user.ID.Hex(),
			Username: user.Username,
			Email:    user.Email,
			GoogleID: user.GoogleID,
		},
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// Logout destroys the session for the given token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// Profile loads the current user record. Unlike the session guard this
// does hit the user collection, so it returns ErrUserNotFound when the
// account no longer exists.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
