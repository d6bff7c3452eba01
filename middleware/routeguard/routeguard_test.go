package routeguard_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notable-io/notable/middleware/routeguard"
)

func TestAllowed(t *testing.T) {
	rules := routeguard.DefaultRules()

	cases := []struct {
		name          string
		method        string
		path          string
		authenticated bool
		want          bool
	}{
		{"preflight is public", fiber.MethodOptions, "/api/notes", false, true},
		{"login is public", fiber.MethodPost, "/api/auth/login", false, true},
		{"auth subtree is public", fiber.MethodGet, "/api/auth/whatever", false, true},
		{"registration is public", fiber.MethodPost, "/api/users", false, true},
		{"listing users needs identity", fiber.MethodGet, "/api/users", false, false},
		{"listing users with identity", fiber.MethodGet, "/api/users", true, true},
		{"user detail needs identity", fiber.MethodGet, "/api/users/123", false, false},
		{"user delete needs identity", fiber.MethodDelete, "/api/users/123", false, false},
		{"notes need identity", fiber.MethodGet, "/api/notes", false, false},
		{"notes with identity", fiber.MethodGet, "/api/notes", true, true},
		{"graphql needs identity", fiber.MethodPost, "/graphql", false, false},
		{"graphql with identity", fiber.MethodPost, "/graphql", true, true},
		{"root needs identity", fiber.MethodGet, "/", false, false},
		{"unknown path needs identity", fiber.MethodGet, "/anything/else", false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := routeguard.Allowed(rules, tc.method, tc.path, tc.authenticated)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRule_Matches(t *testing.T) {
	t.Run("method wildcard", func(t *testing.T) {
		rule := routeguard.Rule{Pattern: "/api/**", Method: "*"}
		assert.True(t, rule.Matches(fiber.MethodDelete, "/api/notes/1"))
	})

	t.Run("method is case insensitive", func(t *testing.T) {
		rule := routeguard.Rule{Pattern: "/api/users", Method: "post"}
		assert.True(t, rule.Matches(fiber.MethodPost, "/api/users"))
	})

	t.Run("double star covers the bare prefix", func(t *testing.T) {
		rule := routeguard.Rule{Pattern: "/api/auth/**", Method: "*"}
		assert.True(t, rule.Matches(fiber.MethodPost, "/api/auth"))
		assert.True(t, rule.Matches(fiber.MethodPost, "/api/auth/login"))
		assert.False(t, rule.Matches(fiber.MethodPost, "/api/authx"))
	})
}

func TestMiddleware(t *testing.T) {
	newApp := func(bindIdentity bool) *fiber.App {
		app := fiber.New()
		if bindIdentity {
			app.Use(func(c *fiber.Ctx) error {
				c.Locals("user", "john.doe")
				return c.Next()
			})
		}
		app.Use(routeguard.New())
		app.Get("/api/notes", func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})
		return app
	}

	t.Run("rejects anonymous requests with an empty 401", func(t *testing.T) {
		app := newApp(false)

		res, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/notes", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

		body, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		assert.Empty(t, string(body))
	})

	t.Run("passes authenticated requests through", func(t *testing.T) {
		app := newApp(true)

		res, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/notes", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})
}
