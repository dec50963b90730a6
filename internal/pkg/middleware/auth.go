package middleware

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/prospectgenius/dashboard/internal/pkg/entitlements"
	"github.com/prospectgenius/dashboard/internal/pkg/usercontext"
)

// Guards implement the per-region state machine
// Loading -> {Unauthenticated, Denied, Allowed}. A request with a live
// session whose profile/subscription is still unresolved yields a retriable
// loading response, never an unauthenticated redirect.

// RequireAuth ensures a logged-in web session; redirects to /login with the
// intended destination preserved for the post-login return.
func RequireAuth(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if !uc.Resolved {
		return renderPending(c)
	}
	if !uc.IsLoggedIn {
		return redirectToLogin(c)
	}
	return c.Next()
}

// Require builds a guard for a requirement with the default denial view.
func Require(req entitlements.Requirement) fiber.Handler {
	return RequireWithFallback(req, nil)
}

// RequireWithFallback builds a guard that renders the supplied fallback on
// denial instead of the default insufficient-permissions view.
func RequireWithFallback(req entitlements.Requirement, fallback fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uc := usercontext.GetUserContext(c)
		decision := entitlements.Evaluate(uc, req)

		switch decision.State {
		case entitlements.StateAllow:
			return c.Next()
		case entitlements.StateUnauthenticated:
			return redirectToLogin(c)
		case entitlements.StatePending:
			return renderPending(c)
		default:
			if fallback != nil {
				return fallback(c)
			}
			return renderDenied(c, decision)
		}
	}
}

// RequireAdmin ensures a logged-in admin
func RequireAdmin(c *fiber.Ctx) error {
	return Require(entitlements.Requirement{
		AllowedRoles: []string{string(entitlements.RoleAdmin)},
	})(c)
}

// RequireAPIAuth ensures a logged-in session for API routes and returns
// JSON 401 instead of a redirect.
func RequireAPIAuth(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if !uc.Resolved {
		c.Set(fiber.HeaderRetryAfter, "1")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "pending",
			"message": "identity resolution in progress",
		})
	}
	if !uc.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}

// RequireAPI builds a JSON guard for a requirement: 401 when
// unauthenticated, 403 with the decision detail when denied.
func RequireAPI(req entitlements.Requirement) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uc := usercontext.GetUserContext(c)
		decision := entitlements.Evaluate(uc, req)

		switch decision.State {
		case entitlements.StateAllow:
			return c.Next()
		case entitlements.StateUnauthenticated:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "login required",
			})
		case entitlements.StatePending:
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":   "pending",
				"message": "identity resolution in progress",
			})
		default:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":    "forbidden",
				"message":  "insufficient permissions",
				"decision": decision,
			})
		}
	}
}

func redirectToLogin(c *fiber.Ctx) error {
	dest := c.OriginalURL()
	if dest == "" || dest == "/" {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.Redirect("/login?redirect="+url.QueryEscape(dest), fiber.StatusSeeOther)
}

func renderPending(c *fiber.Ctx) error {
	c.Set(fiber.HeaderRetryAfter, "1")
	return c.Status(fiber.StatusServiceUnavailable).Render("loading", fiber.Map{
		"Title": "Loading",
	})
}

func renderDenied(c *fiber.Ctx, decision entitlements.Decision) error {
	return c.Status(fiber.StatusForbidden).Render("denied", fiber.Map{
		"Title":         "Insufficient permissions",
		"CurrentRole":   decision.CurrentRole,
		"CurrentPlan":   decision.CurrentPlan,
		"RequiredRoles": strings.Join(decision.RequiredRoles, ", "),
		"RequiredPlans": strings.Join(decision.RequiredPlans, ", "),
		"ShowUpgrade":   decision.CurrentRole == string(entitlements.RoleGuest),
	})
}
