package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/prospectgenius/dashboard/app/models"
	"github.com/prospectgenius/dashboard/app/repository"
	"github.com/prospectgenius/dashboard/internal/pkg/cache"
	"github.com/prospectgenius/dashboard/internal/pkg/database"
	"github.com/prospectgenius/dashboard/internal/pkg/env"
	"github.com/prospectgenius/dashboard/internal/pkg/identity"
	"github.com/prospectgenius/dashboard/internal/pkg/router"
)

func main() {
	app := NewApplication()

	// coarse poll bounding subscription staleness
	identity.GetStore().StartRefreshLoop(context.Background(), identity.DefaultRefreshTTL)

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	basePath := findBasePath()

	app := fiber.New(fiber.Config{
		Views: html.New(basePath+"views", ".html"),
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", monitor.New())

	// SWAGGER / OPENAPI
	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}))

	// ROUTER
	router.InstallRouter(app)

	seedPlanCatalog()

	return app
}

func findBasePath() string {
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/prospectgenius to project root
		"../../../", // Fallback
	}
	for _, path := range basePaths {
		if _, err := os.Stat(path + "views"); !os.IsNotExist(err) {
			return path
		}
	}
	panic("Could not find project root directory")
}

// seedPlanCatalog upserts the default plan catalog so a fresh deployment
// has purchasable tiers.
func seedPlanCatalog() {
	repos := repository.GetGlobalRepositories()

	starter := &models.Plan{Name: "starter", PriceCents: 4900, IsActive: true}
	starter.SetFeatures([]string{"weekly updates", "funding filters"})

	pro := &models.Plan{Name: "pro", PriceCents: 14900, IsActive: true}
	pro.SetFeatures([]string{"daily updates", "funding filters", "investor search", "analytics"})

	for _, plan := range []*models.Plan{starter, pro} {
		if err := repos.Plan.Upsert(plan); err != nil {
			log.Printf("plan seed failed for %s: %v", plan.Name, err)
		}
	}
}
