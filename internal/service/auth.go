package service

import (
	"context"
	"errors"
	"time"

	"github.com/jomacs/bookly/internal/events"
	"github.com/jomacs/bookly/internal/hash"
	"github.com/jomacs/bookly/internal/logging"
	"github.com/jomacs/bookly/internal/models"
	"github.com/jomacs/bookly/internal/repo"
	"github.com/jomacs/bookly/internal/tokens"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user already exists")
	ErrCannotRevoke       = errors.New("could not revoke token")
)

// Revoker writes token ids to the revocation store.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type AuthService struct {
	Users     *repo.UserRepo
	Codec     *tokens.Codec
	Blocklist Revoker
	Producer  *events.Producer
}

type RegisterInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         *models.User
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, ErrValidation
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: pwHash,
		Role:         "user",
	}

	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_failed", "reason", "conflict", "username", in.Username)
			return nil, ErrUserExists
		}
		l.Error("register_failed", "error", err)
		return nil, err
	}

	s.publish(ctx, user.ID.String(), map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID.String(),
		"username": user.Username,
	})

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			// Same failure as a bad password so callers cannot probe for
			// registered emails.
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	subject := tokens.Subject{
		ID:    user.ID.String(),
		Email: user.Email,
		Role:  user.Role,
	}

	now := time.Now()
	accessToken, accessClaims, err := s.Codec.Issue(subject, tokens.Access, now)
	if err != nil {
		l.Error("login_failed", "error", err)
		return nil, err
	}
	refreshToken, refreshClaims, err := s.Codec.Issue(subject, tokens.Refresh, now)
	if err != nil {
		l.Error("login_failed", "error", err)
		return nil, err
	}

	s.publish(ctx, user.ID.String(), map[string]any{
		"type":    "user_login",
		"user_id": user.ID.String(),
	})

	l.Info("login_successful", "user_id", user.ID.String())
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessClaims.ExpiresAt.Time,
		RefreshExp:   refreshClaims.ExpiresAt.Time,
		User:         user,
	}, nil
}

// RefreshAccess mints a new access token from a validated refresh token's
// subject. The refresh token itself stays valid: its jti is never
// blocklisted by this flow.
func (s *AuthService) RefreshAccess(ctx context.Context, claims *tokens.Claims) (string, time.Time, error) {
	accessToken, accessClaims, err := s.Codec.Issue(claims.User, tokens.Access, time.Now())
	if err != nil {
		logging.FromContext(ctx).Error("refresh_failed", "error", err)
		return "", time.Time{}, err
	}
	return accessToken, accessClaims.ExpiresAt.Time, nil
}

// LogOut blocklists the presented token's jti for the remainder of its
// validity window. A store failure is returned: the client must not be told
// the token is dead while the blocklist never heard of it.
func (s *AuthService) LogOut(ctx context.Context, claims *tokens.Claims) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.Blocklist.Revoke(ctx, claims.ID, ttl); err != nil {
		l.Error("logout_failed", "reason", "cannot revoke token", "jti", claims.ID, "error", err)
		return ErrCannotRevoke
	}

	s.publish(ctx, claims.User.ID, map[string]any{
		"type":    "user_logout",
		"user_id": claims.User.ID,
		"jti":     claims.ID,
	})

	l.Info("logout_successful", "jti", claims.ID)
	return nil
}

func (s *AuthService) publish(ctx context.Context, key string, event map[string]any) {
	if err := s.Producer.PublishEvent(ctx, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "error", err)
	}
}
