package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prospectgenius/dashboard/app/controllers"
	"github.com/prospectgenius/dashboard/app/repository"
	"github.com/prospectgenius/dashboard/internal/pkg/database"
	"github.com/prospectgenius/dashboard/internal/pkg/entitlements"
	"github.com/prospectgenius/dashboard/internal/pkg/identity"
	"github.com/prospectgenius/dashboard/internal/pkg/middleware"
	"github.com/prospectgenius/dashboard/internal/pkg/oauth"
	"github.com/prospectgenius/dashboard/internal/pkg/session"
)

type HttpRouter struct {
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session store and oauth providers
	session.NewSessionStore()
	oauth.Setup()

	// init repositories and the identity store (single writer of the
	// derived CurrentUser cache)
	repository.InitializeFactory(database.GetDB())
	repos := repository.GetGlobalRepositories()
	identity.SetupStore(
		identity.NewResolver(repos.Profile, repos.Subscription),
		identity.DefaultRefreshTTL,
	)

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	controllers.InitializeAdminController()

	h.registerPublicRoutes(app)
	h.registerProtectedRoutes(app)
}

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/", controllers.HandleHome)
	app.Get("/pricing", controllers.HandlePricing)

	app.Get("/login", controllers.HandleAuthLogin)
	app.Post("/login", controllers.HandleAuthLogin)
	app.Get("/register", controllers.HandleAuthRegister)
	app.Post("/register", controllers.HandleAuthRegister)
	app.Get("/logout", controllers.HandleAuthLogout)

	// OAuth (goth manages its own session store on these routes)
	app.Get("/auth/:provider", controllers.HandleOAuthBegin)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)
}

func (h HttpRouter) registerProtectedRoutes(app *fiber.App) {
	anyRole := entitlements.Requirement{
		AllowedRoles: []string{"guest", "subscriber", "admin"},
	}
	premiumPlans := entitlements.Requirement{
		AllowedPlans: []string{"starter", "pro"},
	}

	app.Get("/dashboard", middleware.Require(anyRole), controllers.HandleDashboard)
	app.Get("/analytics", middleware.Require(premiumPlans), controllers.HandleAnalytics)

	app.Get("/profile", middleware.RequireAuth, controllers.HandleProfile)
	app.Post("/profile", middleware.RequireAuth, controllers.HandleUpdateProfile)

	app.Post("/billing/subscribe", middleware.RequireAuth, controllers.HandleSubscribe)
	app.Post("/billing/cancel", middleware.RequireAuth, controllers.HandleCancelSubscription)
}
