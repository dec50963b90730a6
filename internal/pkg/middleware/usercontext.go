package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/prospectgenius/dashboard/internal/pkg/identity"
	"github.com/prospectgenius/dashboard/internal/pkg/session"
	"github.com/prospectgenius/dashboard/internal/pkg/usercontext"
)

// UserContextMiddleware derives the canonical CurrentUser view for every
// request and writes it into request locals. This is the only writer of
// that state; guards and controllers read it via usercontext.
func UserContextMiddleware(c *fiber.Ctx) error {
	// Goth manages its own fiber session store on OAuth routes; skip our
	// app session there to prevent cross-store collisions.
	if strings.HasPrefix(c.Path(), "/auth/") {
		return c.Next()
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		// Session store outage degrades to an anonymous, resolved context.
		usercontext.SetUserContext(c, usercontext.UserContext{Resolved: true})
		return c.Next()
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		// No session: known-absent is a resolved state, not a pending one.
		usercontext.SetUserContext(c, usercontext.UserContext{Resolved: true})
		return c.Next()
	}

	uid, ok := userID.(uint)
	if !ok || uid == 0 {
		usercontext.SetUserContext(c, usercontext.UserContext{Resolved: true})
		return c.Next()
	}

	cu := identity.GetStore().Resolve(c.UserContext(), identity.Session{
		UserID: uid,
		Email:  session.GetSessionValue(c, usercontext.KeyUserEmail),
		Name:   session.GetSessionValue(c, usercontext.KeyUserName),
	})

	usercontext.SetUserContext(c, cu.UserContext())
	return c.Next()
}
