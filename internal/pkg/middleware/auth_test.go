package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectgenius/dashboard/internal/pkg/entitlements"
	"github.com/prospectgenius/dashboard/internal/pkg/usercontext"
)

func guardedApp(uc usercontext.UserContext, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		usercontext.SetUserContext(c, uc)
		return c.Next()
	})
	app.Get("/guarded", guard, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestRequireAuthRedirectsWithReturnTarget(t *testing.T) {
	app := guardedApp(usercontext.UserContext{Resolved: true}, RequireAuth)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded?tab=2", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?redirect=%2Fguarded%3Ftab%3D2", resp.Header.Get("Location"))
}

func TestRequireAuthPassesLoggedInUser(t *testing.T) {
	uc := usercontext.UserContext{Resolved: true, IsLoggedIn: true, Role: "guest"}
	app := guardedApp(uc, RequireAuth)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAPIAuthPendingIsRetriable(t *testing.T) {
	app := guardedApp(usercontext.UserContext{}, RequireAPIAuth)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)

	// Unresolved identity is a retriable condition, never a 401.
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestRequireAPIAuthUnauthorized(t *testing.T) {
	app := guardedApp(usercontext.UserContext{Resolved: true}, RequireAPIAuth)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAPIDeniedCarriesDecision(t *testing.T) {
	uc := usercontext.UserContext{Resolved: true, IsLoggedIn: true, Role: "guest"}
	guard := RequireAPI(entitlements.Requirement{AllowedPlans: []string{"starter", "pro"}})
	app := guardedApp(uc, guard)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload struct {
		Error    string                `json:"error"`
		Decision entitlements.Decision `json:"decision"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "forbidden", payload.Error)
	assert.Equal(t, entitlements.StateDeny, payload.Decision.State)
	assert.Equal(t, "guest", payload.Decision.CurrentRole)
	assert.Equal(t, []string{"starter", "pro"}, payload.Decision.RequiredPlans)
}

func TestRequireAPIAdminBypassesPlanRequirement(t *testing.T) {
	uc := usercontext.UserContext{Resolved: true, IsLoggedIn: true, Role: "admin"}
	guard := RequireAPI(entitlements.Requirement{AllowedPlans: []string{"starter", "pro"}})
	app := guardedApp(uc, guard)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireWithFallbackUsesFallbackOnDenial(t *testing.T) {
	uc := usercontext.UserContext{Resolved: true, IsLoggedIn: true, Role: "guest"}
	guard := RequireWithFallback(
		entitlements.Requirement{AllowedRoles: []string{"admin"}},
		func(c *fiber.Ctx) error { return c.Redirect("/pricing", fiber.StatusSeeOther) },
	)
	app := guardedApp(uc, guard)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/pricing", resp.Header.Get("Location"))
}
