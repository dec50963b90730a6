package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"
	"github.com/sujit-baniya/flash"

	"github.com/prospectgenius/dashboard/app/models"
	"github.com/prospectgenius/dashboard/app/repository"
)

// HandleOAuthBegin starts the provider flow (e.g. /auth/google)
func HandleOAuthBegin(c *fiber.Ctx) error {
	return gothfiber.BeginAuthHandler(c)
}

// HandleOAuthCallback completes the provider flow, finds or creates the
// local user by email, and establishes the app session.
func HandleOAuthCallback(c *fiber.Ctx) error {
	fm := fiber.Map{"type": "error"}

	gothUser, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		fm["message"] = fmt.Sprintf("sign-in failed: %s", err)
		return flash.WithError(c, fm).Redirect("/login")
	}
	if gothUser.Email == "" {
		fm["message"] = "provider did not supply an email address"
		return flash.WithError(c, fm).Redirect("/login")
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByEmail(gothUser.Email)
	if err != nil {
		user, err = createOAuthUser(repos, gothUser.Email)
		if err != nil {
			fm["message"] = fmt.Sprintf("account creation failed: %s", err)
			return flash.WithError(c, fm).Redirect("/login")
		}
	}

	if name := gothUser.Name; name != "" {
		// Best effort: carry the provider display name into the profile.
		if _, err := repos.Profile.GetOrCreate(c.UserContext(), user.ID, name); err != nil {
			fm["message"] = fmt.Sprintf("profile setup failed: %s", err)
			return flash.WithError(c, fm).Redirect("/login")
		}
	}

	if err := establishSession(c, user); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)
		return flash.WithError(c, fm).Redirect("/login")
	}

	repos.User.Update(withLastLogin(user))

	fm = fiber.Map{"type": "success", "message": "Welcome!"}
	return flash.WithSuccess(c, fm).Redirect("/dashboard")
}

// createOAuthUser provisions an auth record for a provider-only identity
// with a random password that is never shared with the user.
func createOAuthUser(repos *repository.Repositories, email string) (*models.User, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	user, err := models.CreateUser(email, hex.EncodeToString(b))
	if err != nil {
		return nil, err
	}
	if err := repos.User.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
