package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Principal describes the authenticated caller of a request.
// Tokens are opaque; the identity provider behind Resolve owns their format.
type Principal struct {
	// ID identifies the caller. For key-based access this is the role name.
	ID string
	// Role is the caller's role ("admin" or "staff").
	Role string
}

// IsAdmin reports whether the principal may perform privileged operations.
func (p Principal) IsAdmin() bool {
	return p.Role == "admin"
}

// Config holds configuration for the auth middleware.
type Config struct {
	// Resolve validates an opaque bearer token and returns the principal.
	// A false return rejects the request with 401.
	Resolve func(token string) (Principal, bool)
}

// New returns a middleware that authenticates every request via the
// Authorization header (Bearer scheme, with a fallback to X-Api-Key for
// simple clients). The resolved principal is stored in Locals("principal").
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if token == "" {
			token = c.Get("X-Api-Key")
		}

		principal, ok := cfg.Resolve(token)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing API key",
			})
		}

		c.Locals("principal", principal)
		return c.Next()
	}
}

// FromCtx returns the principal set by the middleware.
// The zero Principal is returned when the middleware did not run.
func FromCtx(c *fiber.Ctx) Principal {
	if p, ok := c.Locals("principal").(Principal); ok {
		return p
	}
	return Principal{}
}
