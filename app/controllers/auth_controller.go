package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/prospectgenius/dashboard/app/models"
	"github.com/prospectgenius/dashboard/app/repository"
	"github.com/prospectgenius/dashboard/internal/pkg/identity"
	"github.com/prospectgenius/dashboard/internal/pkg/session"
	"github.com/prospectgenius/dashboard/internal/pkg/usercontext"
)

// HandleAuthLogin renders the login form and processes password sign-in.
func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Render("login", fiber.Map{
			"Title":    "Sign in",
			"Redirect": c.Query("redirect"),
			"Flash":    flash.Get(c),
		})
	}

	fm := fiber.Map{"type": "error"}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByEmail(c.FormValue("email"))
	// notice: in production we do not inform the user with detailed
	// messages about login failures
	if err != nil || !user.CheckPassword(c.FormValue("password")) {
		fm["message"] = "There is a problem with the login process"
		return flash.WithError(c, fm).Redirect("/login")
	}
	if !user.IsActive() {
		fm["message"] = "This account is not active"
		return flash.WithError(c, fm).Redirect("/login")
	}

	if err := establishSession(c, user); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)
		return flash.WithError(c, fm).Redirect("/login")
	}

	repos.User.Update(withLastLogin(user))

	fm = fiber.Map{"type": "success", "message": "Welcome back!"}
	return flash.WithSuccess(c, fm).Redirect(safeRedirectTarget(c.FormValue("redirect")))
}

// HandleAuthRegister renders the registration form and creates the auth
// record. The guest profile itself is created lazily on first resolution.
func HandleAuthRegister(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Render("register", fiber.Map{
			"Title": "Create account",
			"Flash": flash.Get(c),
		})
	}

	fm := fiber.Map{"type": "error"}

	user, err := models.CreateUser(c.FormValue("email"), c.FormValue("password"))
	if err != nil {
		fm["message"] = fmt.Sprintf("invalid registration: %s", err)
		return flash.WithError(c, fm).Redirect("/register")
	}

	repos := repository.GetGlobalRepositories()
	if err := repos.User.Create(user); err != nil {
		fm["message"] = "An account with this email may already exist"
		return flash.WithError(c, fm).Redirect("/register")
	}

	if fullName := c.FormValue("full_name"); fullName != "" {
		// Pre-create the profile so the display name survives first login.
		if _, err := repos.Profile.GetOrCreate(c.UserContext(), user.ID, fullName); err != nil {
			fm["message"] = fmt.Sprintf("profile setup failed: %s", err)
			return flash.WithError(c, fm).Redirect("/register")
		}
	}

	if err := establishSession(c, user); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)
		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{"type": "success", "message": "Account created. Welcome!"}
	return flash.WithSuccess(c, fm).Redirect("/dashboard")
}

// HandleAuthLogout destroys the session and invalidates the cached identity.
func HandleAuthLogout(c *fiber.Ctx) error {
	fm := fiber.Map{"type": "error"}

	userID := usercontext.GetUserID(c)

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "logged out (no sess)"
		return flash.WithError(c, fm).Redirect("/login")
	}

	if err := sess.Destroy(); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)
		return flash.WithError(c, fm).Redirect("/login")
	}

	if userID != 0 {
		identity.GetStore().Invalidate(userID)
	}

	fm = fiber.Map{"type": "success", "message": "Signed out. See you soon!"}
	return flash.WithSuccess(c, fm).Redirect("/")
}

// establishSession writes the identity handle into the user's session and
// triggers an immediate identity resolution so the first guarded request
// does not observe a stale cache entry from a previous login.
func establishSession(c *fiber.Ctx, user *models.User) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}

	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUserEmail, user.Email)

	if err := sess.Save(); err != nil {
		return err
	}

	identity.GetStore().Refresh(c.UserContext(), identity.Session{
		UserID: user.ID,
		Email:  user.Email,
	})
	return nil
}

func withLastLogin(user *models.User) *models.User {
	now := time.Now()
	user.LastLoginAt = &now
	return user
}
