package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/prospectgenius/dashboard/app/repository"
	"github.com/prospectgenius/dashboard/internal/pkg/usercontext"
)

// HandleAPICompanies lists funded companies. Basic listing and the industry
// filter are open to any authenticated role; the funding-amount and
// investor filters are premium-only.
func HandleAPICompanies(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	filter := repository.CompanyFilter{
		Industry: c.Query("industry"),
		Offset:   c.QueryInt("offset", 0),
		Limit:    c.QueryInt("limit", 50),
	}

	minFunding, _ := strconv.ParseInt(c.Query("min_funding_cents", "0"), 10, 64)
	investor := c.Query("investor")

	if (minFunding > 0 || investor != "") && !uc.CanAccessPremium {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":        "forbidden",
			"message":      "funding and investor filters require a premium plan",
			"current_role": uc.Role,
			"current_plan": uc.Plan,
		})
	}
	filter.MinFundingCents = minFunding
	filter.Investor = investor

	companies, total, err := repository.GetGlobalRepositories().Company.List(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "could not load companies",
		})
	}

	return c.JSON(fiber.Map{
		"total":     total,
		"companies": companies,
	})
}
