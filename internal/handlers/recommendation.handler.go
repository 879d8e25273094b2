package handlers

import (
	"errors"

	"sinecarbon/internal/app"
	recommendationController "sinecarbon/internal/controllers/recommendation"
	"sinecarbon/internal/handlers/middleware"
	"sinecarbon/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type RecommendationHandler struct {
	Handler
	recommendationController recommendationController.RecommendationControllerInterface
}

func NewRecommendationHandler(app app.App, router fiber.Router) *RecommendationHandler {
	log := logger.New("handlers").File("recommendation_handler")
	return &RecommendationHandler{
		recommendationController: app.Controllers.Recommendation,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RecommendationHandler) Register() {
	recommendations := h.router.Group("/recommendations", h.middleware.RequireAuth())
	recommendations.Get("/next", h.getNextActions)
	recommendations.Get("/bucket-list", h.getBucketList)
	recommendations.Post("/:id/outcome", h.recordOutcome)
}

// getNextActions answers 204 when nothing is eligible for the user today.
func (h *RecommendationHandler) getNextActions(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	next, err := h.recommendationController.GetNextActions(c.UserContext(), user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load recommendations",
		})
	}

	if next == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.JSON(next)
}

func (h *RecommendationHandler) recordOutcome(c *fiber.Ctx) error {
	log := h.log.Function("recordOutcome")
	user := middleware.GetUser(c)

	var req recommendationController.OutcomeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.recommendationController.RecordOutcome(
		c.UserContext(),
		user,
		c.Params("id"),
		req,
	)
	if err != nil {
		switch {
		case errors.Is(err, recommendationController.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, services.ErrRecommendationNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Recommendation not found",
			})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record outcome",
		})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *RecommendationHandler) getBucketList(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	return c.JSON(h.recommendationController.GetBucketList(c.UserContext(), user))
}
