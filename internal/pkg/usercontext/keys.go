package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	AuthKey          = "authenticated"
	KeyUserID        = "user_id"
	KeyUserEmail     = "user_email"
	KeyUserName      = "user_name"
	KeyUserContext   = "USER_CONTEXT"
	KeyRedirectAfter = "redirect_after_login"
)
