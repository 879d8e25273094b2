package handlers

import (
	"errors"

	"sinecarbon/internal/app"
	adminController "sinecarbon/internal/controllers/admin"
	"sinecarbon/internal/handlers/middleware"
	"sinecarbon/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	adminController adminController.AdminControllerInterface
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		adminController: app.Controllers.Admin,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group(
		"/admin",
		h.middleware.RequireAuth(),
		h.middleware.RequireAdmin(),
	)

	admin.Get("/rules", h.getRules)
	admin.Put("/rules", h.updateRules)
}

func (h *AdminHandler) getRules(c *fiber.Ctx) error {
	return c.JSON(h.adminController.GetRules(c.UserContext()))
}

func (h *AdminHandler) updateRules(c *fiber.Ctx) error {
	log := h.log.Function("updateRules")
	user := middleware.GetUser(c)

	var policy models.RankingPolicy
	if err := c.BodyParser(&policy); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	updated, err := h.adminController.UpdateRules(c.UserContext(), policy)
	if err != nil {
		if errors.Is(err, adminController.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if errors.Is(err, adminController.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Ranking rules changed, retry the update",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update ranking rules",
		})
	}

	log.Info("Ranking rules updated", "userID", user.ID, "version", updated.Version)
	return c.JSON(updated)
}
