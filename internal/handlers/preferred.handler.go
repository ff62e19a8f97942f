package handlers

import (
	"brightnest/internal/app"
	preferredController "brightnest/internal/controllers/preferred"
	"brightnest/internal/handlers/middleware"
	"brightnest/internal/logger"
	"brightnest/internal/services"

	"github.com/gofiber/fiber/v2"
)

type PreferredHandler struct {
	Handler
	preferredController preferredController.PreferredControllerInterface
	authService         *services.AuthService
}

func NewPreferredHandler(app app.App, router fiber.Router) *PreferredHandler {
	log := logger.New("handlers").File("preferred_handler")
	return &PreferredHandler{
		preferredController: app.Controllers.Preferred,
		authService:         app.Services.Auth,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *PreferredHandler) Register() {
	homes := h.router.Group("/homes")

	protected := homes.Group("/", h.middleware.RequireAuth(h.authService))
	protected.Get("/:homeId/preferred/:cleanerId", h.getPreferredStatus)
	protected.Put("/:homeId/preferred/:cleanerId", h.setPreferred)
	protected.Delete("/:homeId/preferred/:cleanerId", h.unsetPreferred)
}

func (h *PreferredHandler) getPreferredStatus(c *fiber.Ctx) error {
	log := logger.New("handlers").
		TraceFromContext(c.UserContext()).
		File("preferred_handler").
		Function("getPreferredStatus")

	homeID, cleanerID, ok := h.parsePairParams(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid home or cleaner id",
		})
	}

	preferred, err := h.preferredController.IsPreferred(c.UserContext(), homeID, cleanerID)
	if err != nil {
		_ = log.Err("Failed to check preferred status", err,
			"homeID", homeID, "cleanerID", cleanerID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to check preferred status",
		})
	}

	return c.JSON(fiber.Map{
		"preferred": preferred,
	})
}

func (h *PreferredHandler) setPreferred(c *fiber.Ctx) error {
	log := logger.New("handlers").
		TraceFromContext(c.UserContext()).
		File("preferred_handler").
		Function("setPreferred")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	homeID, cleanerID, ok := h.parsePairParams(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid home or cleaner id",
		})
	}

	err := h.preferredController.SetPreferred(c.UserContext(), user, homeID, cleanerID)
	if err != nil {
		_ = log.Err("Failed to set preferred cleaner", err,
			"homeID", homeID, "cleanerID", cleanerID, "userID", user.ID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Preferred cleaner set",
	})
}

func (h *PreferredHandler) unsetPreferred(c *fiber.Ctx) error {
	log := logger.New("handlers").
		TraceFromContext(c.UserContext()).
		File("preferred_handler").
		Function("unsetPreferred")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	homeID, cleanerID, ok := h.parsePairParams(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid home or cleaner id",
		})
	}

	err := h.preferredController.UnsetPreferred(c.UserContext(), user, homeID, cleanerID)
	if err != nil {
		_ = log.Err("Failed to unset preferred cleaner", err,
			"homeID", homeID, "cleanerID", cleanerID, "userID", user.ID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Preferred cleaner removed",
	})
}

func (h *PreferredHandler) parsePairParams(c *fiber.Ctx) (int, int, bool) {
	homeID, err := c.ParamsInt("homeId")
	if err != nil || homeID <= 0 {
		return 0, 0, false
	}

	cleanerID, err := c.ParamsInt("cleanerId")
	if err != nil || cleanerID <= 0 {
		return 0, 0, false
	}

	return homeID, cleanerID, true
}
