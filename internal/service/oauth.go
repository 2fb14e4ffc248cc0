package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/openchat-labs/chat-backend/internal/config"
	"github.com/openchat-labs/chat-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2v2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const stateTTL = 10 * time.Minute

// GoogleAuthenticator runs the Google sign-in code flow and resolves the
// returned profile to a local user, creating one on first sign-in.
type GoogleAuthenticator struct {
	conf        *oauth2.Config
	users       domain.UserRepository
	stateSecret []byte
}

// NewGoogleAuthenticator creates a Google authenticator. The state
// parameter is a short-lived HMAC-signed token derived from the session
// secret, so callbacks cannot be forged cross-site.
func NewGoogleAuthenticator(cfg config.GoogleConfig, stateSecret string, users domain.UserRepository) *GoogleAuthenticator {
	return &GoogleAuthenticator{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		users:       users,
		stateSecret: []byte(stateSecret),
	}
}

// Enabled reports whether Google sign-in is configured
func (g *GoogleAuthenticator) Enabled() bool {
	return g.conf.ClientID != "" && g.conf.ClientSecret != ""
}

// AuthURL returns the provider redirect URL with a signed state token
func (g *GoogleAuthenticator) AuthURL() (string, error) {
	claims := jwt.MapClaims{
		"exp": time.Now().Add(stateTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.stateSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}
	return g.conf.AuthCodeURL(state), nil
}

func (g *GoogleAuthenticator) verifyState(state string) error {
	_, err := jwt.Parse(state, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.stateSecret, nil
	})
	if err != nil {
		return ErrInvalidState
	}
	return nil
}

// Exchange completes the callback: verifies state, trades the code for a
// token, fetches the Google profile and resolves it to a local user.
func (g *GoogleAuthenticator) Exchange(ctx context.Context, state, code string) (*domain.User, error) {
	if err := g.verifyState(state); err != nil {
		return nil, err
	}

	token, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	svc, err := oauth2v2.NewService(ctx, option.WithTokenSource(g.conf.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}

	return g.resolveUser(ctx, info.Id, info.Email, info.Name)
}

// resolveUser finds the user for a Google identity, creating one on
// first sign-in. Creation races between concurrent callbacks are settled
// by the unique googleId index: the loser re-reads the winner's row.
func (g *GoogleAuthenticator) resolveUser(ctx context.Context, googleID, email, name string) (*domain.User, error) {
	user, err := g.users.GetByGoogleID(ctx, googleID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	if err := domain.ValidateUsername(name); err != nil {
		return nil, fmt.Errorf("google profile name rejected: %w", err)
	}

	now := time.Now()
	user = &domain.User{
		ID:        primitive.NewObjectID(),
		Username:  name,
		Email:     email,
		GoogleID:  googleID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := g.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			existing, findErr := g.users.GetByGoogleID(ctx, googleID)
			if findErr != nil {
				return nil, fmt.Errorf("failed to re-resolve user after duplicate: %w", findErr)
			}
			if existing != nil {
				return existing, nil
			}
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Str("user_id", user.ID.Hex()).Msg("Created user from Google profile")
	return user, nil
}
