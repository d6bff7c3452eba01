// Package routeguard is the authorization policy: a static, ordered rule
// table mapping path patterns and methods to "public" or "requires an
// authenticated identity". First match wins; the decision is static per
// deployment and consults nothing beyond the pattern match and whether the
// interceptor bound an identity.
package routeguard

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gofiber/fiber/v2"
)

// Rule maps a path pattern and method to an access decision. Method "*"
// matches any method. Patterns use doublestar globs, so "/api/**" covers
// "/api" and everything below it.
type Rule struct {
	Pattern string
	Method  string
	Public  bool
}

// Matches reports whether the rule covers the given method and path.
func (r Rule) Matches(method, path string) bool {
	if r.Method != "*" && !strings.EqualFold(r.Method, method) {
		return false
	}
	ok, err := doublestar.Match(r.Pattern, path)
	return err == nil && ok
}

// DefaultRules is the deployment policy: CORS preflight and the auth
// endpoints are public, registration stays public so new users can obtain
// credentials, everything else requires an identity.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "/api/**", Method: fiber.MethodOptions, Public: true},
		{Pattern: "/api/auth/**", Method: "*", Public: true},
		{Pattern: "/api/users", Method: fiber.MethodPost, Public: true},
		{Pattern: "/api/users/**", Method: "*", Public: false},
		{Pattern: "/graphql", Method: "*", Public: false},
		{Pattern: "/**", Method: "*", Public: false},
	}
}

type Config struct {
	// Rules are evaluated in order; first match wins. Defaults to
	// DefaultRules.
	Rules []Rule
	// ContextKey is where the interceptor bound the identity
	ContextKey string
}

// New builds the policy middleware. Requests matching a protected rule with
// no identity bound are rejected with a generic 401 and an empty body before
// reaching the handler.
func New(config ...Config) fiber.Handler {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if len(cfg.Rules) == 0 {
		cfg.Rules = DefaultRules()
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	return func(c *fiber.Ctx) error {
		if Allowed(cfg.Rules, c.Method(), c.Path(), c.Locals(cfg.ContextKey) != nil) {
			return c.Next()
		}
		// SendStatus would fill the body with the status text; the
		// rejection stays deliberately empty.
		return c.Status(fiber.StatusUnauthorized).SendString("")
	}
}

// Allowed applies the rule table to a single request. Unmatched requests
// require an identity.
func Allowed(rules []Rule, method, path string, authenticated bool) bool {
	for _, rule := range rules {
		if !rule.Matches(method, path) {
			continue
		}
		return rule.Public || authenticated
	}
	return authenticated
}
