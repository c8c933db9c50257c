package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsdesk/platform/internal/core/domain"
	"github.com/opsdesk/platform/internal/core/ports"
	"github.com/opsdesk/platform/internal/pkg/password"
	"github.com/opsdesk/platform/internal/pkg/token"
)

const tokenTypeBearer = "bearer"

// LoginLimiter throttles repeated login failures per handle (Redis).
// A nil limiter disables throttling.
type LoginLimiter interface {
	Allow(ctx context.Context, handle string) (bool, error)
	RecordFailure(ctx context.Context, handle string) error
	Reset(ctx context.Context, handle string) error
}

// AuthService implements registration, login and token authentication.
type AuthService struct {
	store   ports.CredentialStore
	tokens  *token.Manager
	limiter LoginLimiter
	log     zerolog.Logger
	now     func() time.Time
}

func NewAuthService(store ports.CredentialStore, tokens *token.Manager, limiter LoginLimiter, log zerolog.Logger) *AuthService {
	return &AuthService{
		store:   store,
		tokens:  tokens,
		limiter: limiter,
		log:     log,
		now:     time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if in.Email == "" {
		return nil, domain.Invalid("email is required")
	}
	if in.Username == "" {
		in.Username = in.Email
	}
	if len(in.Password) < password.MinLength {
		return nil, domain.Invalid("password must be at least %d characters", password.MinLength)
	}
	if len(in.Password) > password.MaxLength {
		return nil, domain.Invalid("password must be at most %d bytes", password.MaxLength)
	}
	if in.Role == 0 {
		in.Role = domain.RoleEngineer
	}
	if !in.Role.Valid() {
		return nil, domain.Invalid("role must be one of 1, 2, 3")
	}

	if err := s.ensureAvailable(ctx, in.Username, in.Email); err != nil {
		return nil, err
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         in.Role,
		IsActive:     true,
		IsAdmin:      in.IsAdmin,
		CreatedAt:    domain.StoredTime(s.now()),
	}

	created, err := s.store.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// ensureAvailable rejects a registration whose username or email is taken.
// Login accepts either as the handle, so each is checked against both
// usernames and emails; otherwise a username equal to someone's email would
// capture that person's login.
func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	handles := []struct{ field, value string }{{"username", username}, {"email", email}}
	for _, h := range handles {
		if _, err := s.store.FindByUsername(ctx, h.value); err == nil {
			return fmt.Errorf("%s %w", h.field, domain.ErrUserExists)
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("check %s: %w", h.field, err)
		}
		if _, err := s.store.FindByEmail(ctx, h.value); err == nil {
			return fmt.Errorf("%s %w", h.field, domain.ErrUserExists)
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("check %s: %w", h.field, err)
		}
	}
	return nil
}

// Login verifies credentials and issues a bearer token. Unknown handles and
// wrong passwords yield the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, handle, plain string) (*ports.LoginResult, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" || plain == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, handle)
		if err != nil {
			s.log.Warn().Err(err).Msg("login limiter check failed, proceeding")
		} else if !allowed {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.findByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, handle)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !password.Verify(user.PasswordHash, plain) {
		s.recordFailure(ctx, handle)
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, handle); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login limiter")
		}
	}

	signed, _, err := s.tokens.Issue(user.Username, user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.LoginResult{AccessToken: signed, TokenType: tokenTypeBearer, User: user}, nil
}

// findByHandle accepts either a username or an email.
func (s *AuthService) findByHandle(ctx context.Context, handle string) (*domain.User, error) {
	user, err := s.store.FindByUsername(ctx, handle)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	return s.store.FindByEmail(ctx, handle)
}

func (s *AuthService) recordFailure(ctx context.Context, handle string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, handle); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

// Authenticate validates a bearer token and resolves its subject to a stored,
// active identity. The store lookup on every call lets a disabled account lose
// access immediately even though its token has not expired.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*domain.User, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		s.log.Debug().Err(err).Msg("token rejected")
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.store.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("sub", claims.Subject).Msg("token subject not found")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if claims.UserID != "" && claims.UserID != user.ID {
		s.log.Warn().Str("sub", claims.Subject).Msg("token user id does not match subject")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.log.Debug().Str("user_id", user.ID).Msg("token belongs to disabled account")
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// SetActive enables or disables an account and returns the updated identity.
func (s *AuthService) SetActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	if err := s.store.SetActive(ctx, userID, active); err != nil {
		return nil, err
	}
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Bool("is_active", active).Msg("account status changed")
	return user, nil
}
