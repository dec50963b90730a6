package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prospectgenius/dashboard/internal/pkg/entitlements"
	"github.com/prospectgenius/dashboard/internal/pkg/identity"
	"github.com/prospectgenius/dashboard/internal/pkg/usercontext"
)

// HandleAPIMe returns the canonical current-user view
func HandleAPIMe(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	return c.JSON(fiber.Map{
		"user_id":            uc.UserID,
		"email":              uc.Email,
		"full_name":          uc.FullName,
		"role":               uc.Role,
		"plan":               uc.Plan,
		"can_access_premium": uc.CanAccessPremium,
	})
}

// HandleAPIMyEntitlements evaluates an ad hoc requirement against the
// current user: ?roles=admin,subscriber&plans=pro returns the gate decision.
func HandleAPIMyEntitlements(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	req := entitlements.Requirement{
		AllowedRoles: splitCSV(c.Query("roles")),
		AllowedPlans: splitCSV(c.Query("plans")),
	}
	return c.JSON(entitlements.Evaluate(uc, req))
}

// HandleAPIRefreshMe forces a re-resolution of the cached identity, e.g.
// after an upgrade completed in another tab.
func HandleAPIRefreshMe(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	cu := identity.GetStore().Refresh(c.UserContext(), identity.Session{
		UserID: uc.UserID,
		Email:  uc.Email,
		Name:   uc.FullName,
	})
	refreshed := cu.UserContext()
	return c.JSON(fiber.Map{
		"role":               refreshed.Role,
		"plan":               refreshed.Plan,
		"can_access_premium": refreshed.CanAccessPremium,
	})
}
