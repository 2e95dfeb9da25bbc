package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hosteldesk/hostel-api/database"
	"github.com/hosteldesk/hostel-api/utils/response"
)

// HandleCheckHealth reports liveness and database reachability
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	dbStatus := "ok"
	if err := store.HealthCheck(); err != nil {
		dbStatus = "unreachable"
	}

	return response.Success(c, fiber.Map{
		"status":   "ok",
		"database": dbStatus,
	})
}
