package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext is the canonical per-request view of "who is this user and
// what can they see". It is derived by the identity store and written into
// request locals by exactly one middleware; everything downstream reads it.
type UserContext struct {
	UserID           uint   `json:"user_id"`
	Email            string `json:"email"`
	FullName         string `json:"full_name"`
	IsLoggedIn       bool   `json:"is_logged_in"`
	Resolved         bool   `json:"resolved"` // false while profile/subscription resolution has not completed
	Role             string `json:"role"`
	Plan             string `json:"plan"` // current entitling plan name, "" when none
	CanAccessPremium bool   `json:"can_access_premium"`
}

// GetUserContext retrieves the user context from fiber context.
// Returns an unresolved anonymous context if none is set.
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals(KeyUserContext); ctx != nil {
		if uc, ok := ctx.(UserContext); ok {
			return uc
		}
	}
	return UserContext{}
}

// SetUserContext writes the user context into request locals. Only the
// user-context middleware may call this.
func SetUserContext(c *fiber.Ctx, uc UserContext) {
	c.Locals(KeyUserContext, uc)
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// IsAdmin checks if the current user is an admin
func IsAdmin(c *fiber.Ctx) bool {
	return GetUserContext(c).Role == "admin"
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}
