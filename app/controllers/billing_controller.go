package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/prospectgenius/dashboard/app/models"
	"github.com/prospectgenius/dashboard/app/repository"
	"github.com/prospectgenius/dashboard/internal/pkg/entitlements"
	"github.com/prospectgenius/dashboard/internal/pkg/identity"
	"github.com/prospectgenius/dashboard/internal/pkg/usercontext"
)

// CancelGracePeriod is how long premium access survives after cancellation.
const CancelGracePeriod = 24 * time.Hour

// HandlePricing renders the active plan catalog
func HandlePricing(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	plans, err := repository.GetGlobalRepositories().Plan.GetActive()
	if err != nil {
		plans = nil
	}

	return c.Render("pricing", fiber.Map{
		"Title":       "Pricing",
		"Plans":       plans,
		"CurrentPlan": uc.Plan,
		"IsLoggedIn":  uc.IsLoggedIn,
		"Flash":       flash.Get(c),
	})
}

// HandleSubscribe creates an active subscription for the chosen plan and
// invalidates the cached identity so entitlement changes apply immediately.
func HandleSubscribe(c *fiber.Ctx) error {
	fm := fiber.Map{"type": "error"}

	uc := usercontext.GetUserContext(c)
	if !uc.IsLoggedIn {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	repos := repository.GetGlobalRepositories()
	plan, err := repos.Plan.GetByName(c.FormValue("plan"))
	if err != nil {
		fm["message"] = "Unknown plan"
		return flash.WithError(c, fm).Redirect("/pricing")
	}

	sub := &models.Subscription{
		UserID:    uc.UserID,
		PlanID:    plan.ID,
		Status:    models.SubscriptionStatusActive,
		StartDate: time.Now(),
	}
	if err := repos.Subscription.Create(sub); err != nil {
		fm["message"] = fmt.Sprintf("subscription failed: %s", err)
		return flash.WithError(c, fm).Redirect("/pricing")
	}

	// Guests become subscribers; admins keep their role.
	if entitlements.NormalizeRole(uc.Role) == entitlements.RoleGuest {
		if err := repos.Profile.UpdateRole(uc.UserID, models.ROLE_SUBSCRIBER); err != nil {
			fm["message"] = fmt.Sprintf("role update failed: %s", err)
			return flash.WithError(c, fm).Redirect("/pricing")
		}
	}

	identity.GetStore().Invalidate(uc.UserID)

	fm = fiber.Map{"type": "success", "message": fmt.Sprintf("You are on %s now.", plan.Name)}
	return flash.WithSuccess(c, fm).Redirect("/dashboard")
}

// HandleCancelSubscription cancels the current subscription. The record is
// kept with an end date; premium access lasts until the grace period ends.
func HandleCancelSubscription(c *fiber.Ctx) error {
	fm := fiber.Map{"type": "error"}

	uc := usercontext.GetUserContext(c)
	if !uc.IsLoggedIn {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	repos := repository.GetGlobalRepositories()
	if err := repos.Subscription.CancelCurrent(uc.UserID, time.Now().Add(CancelGracePeriod)); err != nil {
		fm["message"] = "No active subscription to cancel"
		return flash.WithError(c, fm).Redirect("/dashboard")
	}

	identity.GetStore().Invalidate(uc.UserID)

	fm = fiber.Map{"type": "success", "message": "Subscription canceled."}
	return flash.WithSuccess(c, fm).Redirect("/dashboard")
}

// HandleAPIPlans returns the active plan catalog as JSON
func HandleAPIPlans(c *fiber.Ctx) error {
	plans, err := repository.GetGlobalRepositories().Plan.GetActive()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "could not load plans",
		})
	}

	out := make([]fiber.Map, 0, len(plans))
	for i := range plans {
		out = append(out, fiber.Map{
			"id":          plans[i].ID,
			"name":        plans[i].Name,
			"price_cents": plans[i].PriceCents,
			"features":    plans[i].FeatureList(),
		})
	}
	return c.JSON(fiber.Map{"plans": out})
}
