// Package authware is the request authentication interceptor. It runs once
// per inbound request, before any authorization decision, and establishes
// the request-scoped identity when a valid bearer token is presented. It
// never rejects a request itself: every failure degrades to anonymous.
package authware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/notable-io/notable/auth"
)

// IdentityResolver resolves a raw bearer token into a live identity.
// Mirrors the Authenticator's ResolveIdentity method.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (auth.Identity, error)
}

type Config struct {
	// Resolver is required
	Resolver IdentityResolver
	// ContextKey is the fiber.Locals key the identity is bound to
	ContextKey string
	// AuthScheme is the literal header prefix, "Bearer" by default
	AuthScheme string
	Logger     auth.Logger
}

func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		raw, ok := extractBearer(c.Get(fiber.HeaderAuthorization), cfg.AuthScheme)
		if !ok {
			// No header or wrong scheme: an anonymous request, not an error.
			return c.Next()
		}

		identity, err := cfg.Resolver.ResolveIdentity(c.UserContext(), raw)
		if err != nil {
			// Malformed, forged, expired, or orphaned tokens all land here.
			// The request proceeds anonymously.
			cfg.Logger.Debug("invalid bearer token", "error", err)
			return c.Next()
		}

		c.Locals(cfg.ContextKey, identity)
		c.SetUserContext(auth.WithIdentity(c.UserContext(), identity))

		return c.Next()
	}
}

// IdentityFromCtx reads the identity the interceptor bound to the request,
// if any.
func IdentityFromCtx(c *fiber.Ctx, key string) (auth.Identity, bool) {
	if key == "" {
		key = defaultContextKey
	}
	identity, ok := c.Locals(key).(auth.Identity)
	return identity, ok
}

const defaultContextKey = "user"

func configDefault(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Resolver == nil {
		panic("AUTH: interceptor configuration: Resolver is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = defaultContextKey
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}

	return cfg
}

// extractBearer strips the literal "<scheme> " prefix from the Authorization
// header. A missing header or a different scheme is not an error.
func extractBearer(header, scheme string) (string, bool) {
	prefix := scheme + " "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}

	return token, true
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
