package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/prospectgenius/dashboard/app/repository"
	"github.com/prospectgenius/dashboard/internal/pkg/usercontext"
)

// HandleHome renders the marketing landing page
func HandleHome(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	return c.Render("index", fiber.Map{
		"Title":      "ProspectGenius — find funded companies first",
		"IsLoggedIn": uc.IsLoggedIn,
		"Flash":      flash.Get(c),
	})
}

// HandleDashboard renders the main data table view for signed-in users
func HandleDashboard(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	repos := repository.GetGlobalRepositories()
	total, err := repos.Company.Count()
	if err != nil {
		total = 0
	}

	return c.Render("dashboard", fiber.Map{
		"Title":            "Dashboard",
		"FullName":         uc.FullName,
		"Email":            uc.Email,
		"Role":             uc.Role,
		"Plan":             uc.Plan,
		"CanAccessPremium": uc.CanAccessPremium,
		"CompanyCount":     total,
		"Flash":            flash.Get(c),
	})
}

// HandleAnalytics renders the premium analytics view. Access is enforced by
// the route guard; this handler only renders.
func HandleAnalytics(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	return c.Render("analytics", fiber.Map{
		"Title": "Funding analytics",
		"Plan":  uc.Plan,
		"Role":  uc.Role,
	})
}
