package controllers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/prospectgenius/dashboard/app/models"
	"github.com/prospectgenius/dashboard/app/repository"
	"github.com/prospectgenius/dashboard/internal/pkg/identity"
	"github.com/prospectgenius/dashboard/internal/pkg/importer"
)

var adminRepos *repository.Repositories

// InitializeAdminController wires the admin controller with repositories
func InitializeAdminController() {
	adminRepos = repository.GetGlobalRepositories()
}

// HandleAdminUsers lists users with their profiles
func HandleAdminUsers(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)

	users, err := adminRepos.User.List(offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "could not load users",
		})
	}

	out := make([]fiber.Map, 0, len(users))
	for i := range users {
		entry := fiber.Map{
			"id":            users[i].ID,
			"email":         users[i].Email,
			"status":        users[i].Status,
			"last_login_at": formatTimePtr(users[i].LastLoginAt),
		}
		if profile, err := adminRepos.Profile.GetByUserID(users[i].ID); err == nil {
			entry["full_name"] = profile.FullName
			entry["role"] = profile.Role
		} else {
			entry["role"] = models.ROLE_GUEST
		}
		out = append(out, entry)
	}

	total, _ := adminRepos.User.Count()
	return c.JSON(fiber.Map{"total": total, "users": out})
}

// HandleAdminUpdateRole changes a user's role and invalidates their cached
// entitlement state so the change applies on their next request.
func HandleAdminUpdateRole(c *fiber.Ctx) error {
	userID := parseUintParam(c, "id")
	if userID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	role := strings.ToLower(strings.TrimSpace(body.Role))
	switch role {
	case models.ROLE_GUEST, models.ROLE_SUBSCRIBER, models.ROLE_ADMIN:
	default:
		// Reject typos instead of silently degrading someone to guest.
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("unknown role %q", body.Role),
		})
	}

	if _, err := adminRepos.Profile.GetOrCreate(c.UserContext(), userID, ""); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "profile lookup failed"})
	}
	if err := adminRepos.Profile.UpdateRole(userID, role); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "role update failed"})
	}

	identity.GetStore().Invalidate(userID)

	return c.JSON(fiber.Map{"user_id": userID, "role": role})
}

// HandleAdminImportCompanies triggers a dataset import from the configured
// S3 bucket: POST /api/v1/admin/import {"key": "snapshots/2026-08-01.csv"}
func HandleAdminImportCompanies(c *fiber.Ctx) error {
	var body struct {
		Key string `json:"key"`
	}
	if err := c.BodyParser(&body); err != nil || body.Key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "object key required"})
	}

	imp, err := importer.New(adminRepos.Company)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}

	imported, err := imp.Run(c.UserContext(), body.Key)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":    err.Error(),
			"imported": imported,
		})
	}

	return c.JSON(fiber.Map{"imported": imported})
}
