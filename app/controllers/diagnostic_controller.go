package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ManuelReschke/SubFox/app/models"
)

// UserDirectory is the read surface the diagnostic endpoints need.
type UserDirectory interface {
	GetByEmail(email string) (*models.User, error)
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// testUserListLimit caps the user listing echoed by /test-user.
const testUserListLimit = 50

// DiagnosticController serves the operational probe endpoints. Unlike the
// webhook path these reply with structured JSON, errors included.
type DiagnosticController struct {
	users UserDirectory
}

func NewDiagnosticController(users UserDirectory) *DiagnosticController {
	return &DiagnosticController{users: users}
}

// HandlePing handles GET /ping
func (dc *DiagnosticController) HandlePing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "pong"})
}

// HandleHealth handles GET /health
func (dc *DiagnosticController) HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// HandleTestDB handles GET /test-db and reports the user row count.
func (dc *DiagnosticController) HandleTestDB(c *fiber.Ctx) error {
	count, err := dc.users.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":   "Database connection OK",
		"userCount": count,
	})
}

// HandleTestUser handles GET /test-user?email= and echoes the lookup result.
func (dc *DiagnosticController) HandleTestUser(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email query parameter is required"})
	}

	user, err := dc.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			known, listErr := dc.knownUsers()
			if listErr != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": listErr.Error()})
			}
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"found":    false,
				"message":  "User not found",
				"allUsers": known,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"found": true, "user": user})
}

// knownUsers lists stored users as id and email pairs so a missed
// /test-user lookup shows what the database actually holds.
func (dc *DiagnosticController) knownUsers() ([]fiber.Map, error) {
	users, err := dc.users.List(0, testUserListLimit)
	if err != nil {
		return nil, err
	}
	known := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		known = append(known, fiber.Map{"id": u.ID, "email": u.Email})
	}
	return known, nil
}

// HandleCheckSubscription handles GET /check-subscription/:email and
// derives isActive plus the whole days remaining, rounded up.
func (dc *DiagnosticController) HandleCheckSubscription(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.Params("email"))
	user, err := dc.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	now := time.Now()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"email":         user.Email,
		"status":        user.SubscriptionStatus,
		"isActive":      user.IsSubscriptionActive(now),
		"daysRemaining": user.DaysRemaining(now),
	})
}
