package handlers

import (
	"brightnest/internal/app"
	reviewController "brightnest/internal/controllers/review"
	"brightnest/internal/handlers/middleware"
	"brightnest/internal/logger"
	"brightnest/internal/services"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	Handler
	reviewController reviewController.ReviewControllerInterface
	authService      *services.AuthService
}

func NewReviewHandler(app app.App, router fiber.Router) *ReviewHandler {
	log := logger.New("handlers").File("review_handler")
	return &ReviewHandler{
		reviewController: app.Controllers.Review,
		authService:      app.Services.Auth,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReviewHandler) Register() {
	reviews := h.router.Group("/reviews")

	protected := reviews.Group("/", h.middleware.RequireAuth(h.authService))
	protected.Post("", h.submitReview)
}

func (h *ReviewHandler) submitReview(c *fiber.Ctx) error {
	log := logger.New("handlers").
		TraceFromContext(c.UserContext()).
		File("review_handler").
		Function("submitReview")

	user := middleware.GetUser(c)
	if user == nil {
		log.Warn("Unauthorized access attempt")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req reviewController.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	review, err := h.reviewController.SubmitReview(c.UserContext(), user, req)
	if err != nil {
		_ = log.Err("Failed to submit review", err, "userID", user.ID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"review": review,
	})
}
