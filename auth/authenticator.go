package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Auther composes the token service and the credential store boundary into
// the login and identity-resolution flows.
type Auther struct {
	provider IdentityProvider
	tokens   TokenService
	logger   Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, tokens TokenService) *Auther {
	return &Auther{
		provider: provider,
		tokens:   tokens,
		logger:   defLogger{},
	}
}

var _ Authenticator = (*Auther)(nil)

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login verifies the credentials against the store and mints a token on
// success. Unknown users and password mismatches surface as the same error.
func (s *Auther) Login(ctx context.Context, username, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, username, password)
	if err != nil {
		s.logger.Debug("login verify identity failed", "username", username, "error", err)
		return "", err
	}

	if identity == nil {
		s.logger.Error("login identity is nil")
		return "", ErrIdentityNotFound
	}

	token, err := s.tokens.Issue(identity)
	if err != nil {
		s.logger.Error("login token issue failed", "error", err)
		return "", err
	}

	return token, nil
}

// ResolveIdentity verifies the token, extracts its subject, and looks the
// user up in the credential store. A still-valid token whose subject no
// longer maps to a user resolves to ErrIdentityNotFound, not a distinct
// failure.
func (s *Auther) ResolveIdentity(ctx context.Context, token string) (Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	if _, err := uuid.Parse(claims.Subject()); err != nil {
		s.logger.Debug("token subject is not a valid id", "subject", claims.Subject())
		return nil, fmt.Errorf("%w: bad subject", ErrIdentityNotFound)
	}

	identity, err := s.provider.FindIdentityByID(ctx, claims.Subject())
	if err != nil {
		s.logger.Debug("token subject lookup failed", "subject", claims.Subject(), "error", err)
		return nil, ErrIdentityNotFound
	}

	return identity, nil
}
