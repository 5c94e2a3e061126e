package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkordes/notekeeper/internal/auth"
	"github.com/pkordes/notekeeper/internal/domain"
	"github.com/pkordes/notekeeper/internal/mail"
	"github.com/pkordes/notekeeper/internal/repo"
)

// AuthOptions tunes AuthService behaviour.
type AuthOptions struct {
	// BaseURL is the frontend origin used to build verification links.
	BaseURL string
	// RequireVerifiedEmail makes Login refuse accounts that have not
	// confirmed their email address.
	RequireVerifiedEmail bool
}

// AuthService implements registration, login, email verification and
// bearer token authentication.
type AuthService struct {
	users  repo.UserRepo
	tokens *auth.TokenIssuer
	mailer mail.Mailer
	log    *slog.Logger
	opts   AuthOptions
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repo.UserRepo, tokens *auth.TokenIssuer, mailer mail.Mailer, log *slog.Logger, opts AuthOptions) *AuthService {
	return &AuthService{users: users, tokens: tokens, mailer: mailer, log: log, opts: opts}
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,minbytes=8"`
}

// normalizeEmail trims and lower-cases an address so lookups and uniqueness
// do not depend on how the user typed it.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account and sends a verification email.
// A failure to send the email is logged; the account is still created.
func (s *AuthService) Register(ctx context.Context, email, password string) (domain.User, error) {
	in := credentials{Email: normalizeEmail(email), Password: password}
	if err := validateStruct(in); err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return domain.User{}, fmt.Errorf("service.AuthService.Register: %w: password must be at most %d bytes",
				domain.ErrValidation, auth.MaxPasswordBytes)
		}
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	u, err := s.users.Create(ctx, in.Email, hash)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	s.log.InfoContext(ctx, "user registered", "user_id", u.ID)

	s.sendVerification(ctx, u.Email)
	return u, nil
}

// Login checks credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.AccessToken, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.AccessToken{}, errBadCredentials
		}
		return domain.AccessToken{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return domain.AccessToken{}, errBadCredentials
	}
	if !u.IsActive {
		return domain.AccessToken{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrInactive)
	}
	if s.opts.RequireVerifiedEmail && !u.IsVerified {
		return domain.AccessToken{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrNotVerified)
	}

	tok, exp, err := s.tokens.IssueAccess(u.ID)
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return domain.AccessToken{Token: tok, TokenType: "bearer", ExpiresAt: exp}, nil
}

var errBadCredentials = fmt.Errorf("%w: incorrect email or password", domain.ErrUnauthorized)

// VerifyEmail marks the account named by a verification token as verified.
// alreadyVerified reports whether it had been verified before this call.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (u domain.User, alreadyVerified bool, err error) {
	email, err := s.tokens.ParseVerification(token)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("service.AuthService.VerifyEmail: %w: invalid or expired verification token",
			domain.ErrValidation)
	}

	u, err = s.users.GetByEmail(ctx, email)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("service.AuthService.VerifyEmail: %w", err)
	}
	if u.IsVerified {
		return u, true, nil
	}

	u, err = s.users.MarkVerified(ctx, u.ID)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("service.AuthService.VerifyEmail: %w", err)
	}
	s.log.InfoContext(ctx, "email verified", "user_id", u.ID)
	return u, false, nil
}

// ResendVerification sends a fresh verification email when the address
// belongs to an unverified account. It reports success in every other case
// too, so callers cannot probe which addresses are registered.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("service.AuthService.ResendVerification: %w", err)
	case u.IsVerified:
		return nil
	}
	s.sendVerification(ctx, u.Email)
	return nil
}

// Authenticate resolves a bearer access token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	id, err := s.tokens.ParseAccess(token)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w: could not validate credentials",
			domain.ErrUnauthorized)
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w: unknown user", domain.ErrUnauthorized)
		}
		return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w", err)
	}
	if !u.IsActive {
		return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w: %w", domain.ErrUnauthorized, domain.ErrInactive)
	}
	return u, nil
}

func (s *AuthService) sendVerification(ctx context.Context, email string) {
	tok, err := s.tokens.IssueVerification(email)
	if err != nil {
		s.log.ErrorContext(ctx, "issue verification token", "error", err)
		return
	}
	if err := s.mailer.Send(ctx, mail.VerificationMessage(email, s.opts.BaseURL, tok)); err != nil {
		s.log.ErrorContext(ctx, "send verification email", "error", err)
	}
}
