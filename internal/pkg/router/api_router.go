package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/prospectgenius/dashboard/app/controllers"
	"github.com/prospectgenius/dashboard/internal/pkg/entitlements"
	"github.com/prospectgenius/dashboard/internal/pkg/middleware"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "ProspectGenius API",
		})
	})

	v1 := api.Group("/v1")

	v1.Get("/plans", controllers.HandleAPIPlans)

	v1.Get("/me", middleware.RequireAPIAuth, controllers.HandleAPIMe)
	v1.Get("/me/entitlements", middleware.RequireAPIAuth, controllers.HandleAPIMyEntitlements)
	v1.Post("/me/refresh", middleware.RequireAPIAuth, controllers.HandleAPIRefreshMe)

	v1.Get("/companies", middleware.RequireAPIAuth, controllers.HandleAPICompanies)

	adminOnly := middleware.RequireAPI(entitlements.Requirement{
		AllowedRoles: []string{string(entitlements.RoleAdmin)},
	})
	admin := v1.Group("/admin", adminOnly)
	admin.Get("/users", controllers.HandleAdminUsers)
	admin.Patch("/users/:id/role", controllers.HandleAdminUpdateRole)
	admin.Post("/import", controllers.HandleAdminImportCompanies)
}
