package store

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/notable-io/notable/auth"
)

// UserProvider adapts the users repository to the auth package's
// IdentityProvider boundary.
type UserProvider struct {
	users  Users
	logger auth.Logger
}

var _ auth.IdentityProvider = (*UserProvider)(nil)

func NewUserProvider(users Users) *UserProvider {
	return &UserProvider{
		users:  users,
		logger: nopLogger{},
	}
}

func (p *UserProvider) WithLogger(logger auth.Logger) *UserProvider {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. Unknown users and password mismatches produce the same error so
// neither leaks through the login response.
func (p *UserProvider) VerifyIdentity(ctx context.Context, username, password string) (auth.Identity, error) {
	user, err := p.users.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, auth.ErrMismatchedHashAndPassword
		}
		return nil, err
	}

	if err := auth.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, auth.ErrMismatchedHashAndPassword
	}

	return identityFromUser(user), nil
}

// FindIdentityByID resolves a token subject to a live user record. A subject
// that no longer maps to a user yields ErrIdentityNotFound.
func (p *UserProvider) FindIdentityByID(ctx context.Context, id string) (auth.Identity, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, auth.ErrIdentityNotFound
	}

	user, err := p.users.GetByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, auth.ErrIdentityNotFound
		}
		return nil, err
	}

	return identityFromUser(user), nil
}

type userIdentity struct {
	id       string
	username string
	email    string
}

var _ auth.Identity = userIdentity{}

func identityFromUser(user *User) userIdentity {
	return userIdentity{
		id:       user.ID.String(),
		username: user.Username,
		email:    user.Email,
	}
}

func (a userIdentity) ID() string {
	return a.id
}

func (a userIdentity) Username() string {
	return a.username
}

func (a userIdentity) Email() string {
	return a.email
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
