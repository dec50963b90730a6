package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/prospectgenius/dashboard/app/repository"
	"github.com/prospectgenius/dashboard/internal/pkg/identity"
	"github.com/prospectgenius/dashboard/internal/pkg/usercontext"
)

// HandleProfile renders the account settings page
func HandleProfile(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	return c.Render("profile", fiber.Map{
		"Title":    "Your account",
		"FullName": uc.FullName,
		"Email":    uc.Email,
		"Role":     uc.Role,
		"Plan":     uc.Plan,
		"Flash":    flash.Get(c),
	})
}

// HandleUpdateProfile updates the display name. Users can only change their
// own name; role changes go through the admin endpoint.
func HandleUpdateProfile(c *fiber.Ctx) error {
	fm := fiber.Map{"type": "error"}

	uc := usercontext.GetUserContext(c)
	fullName := strings.TrimSpace(c.FormValue("full_name"))
	if fullName == "" {
		fm["message"] = "Name must not be empty"
		return flash.WithError(c, fm).Redirect("/profile")
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.Profile.GetOrCreate(c.UserContext(), uc.UserID, fullName); err != nil {
		fm["message"] = "Profile update failed"
		return flash.WithError(c, fm).Redirect("/profile")
	}
	if err := repos.Profile.UpdateName(uc.UserID, fullName); err != nil {
		fm["message"] = "Profile update failed"
		return flash.WithError(c, fm).Redirect("/profile")
	}

	identity.GetStore().Invalidate(uc.UserID)

	fm = fiber.Map{"type": "success", "message": "Profile updated."}
	return flash.WithSuccess(c, fm).Redirect("/profile")
}
