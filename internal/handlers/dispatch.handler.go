package handlers

import (
	"errors"

	"brightnest/internal/app"
	dispatchController "brightnest/internal/controllers/dispatch"
	"brightnest/internal/handlers/middleware"
	"brightnest/internal/logger"
	"brightnest/internal/services"
	"brightnest/internal/websockets"

	"github.com/gofiber/fiber/v2"
)

type DispatchHandler struct {
	Handler
	dispatchController dispatchController.DispatchControllerInterface
	authService        *services.AuthService
	websocket          *websockets.Manager
}

func NewDispatchHandler(app app.App, router fiber.Router) *DispatchHandler {
	log := logger.New("handlers").File("dispatch_handler")
	return &DispatchHandler{
		dispatchController: app.Controllers.Dispatch,
		authService:        app.Services.Auth,
		websocket:          app.Websocket,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *DispatchHandler) Register() {
	appointments := h.router.Group("/appointments")

	protected := appointments.Group("/", h.middleware.RequireAuth(h.authService))
	protected.Post("/:id/dispatch", h.triggerDispatch)
}

func (h *DispatchHandler) triggerDispatch(c *fiber.Ctx) error {
	log := logger.New("handlers").
		TraceFromContext(c.UserContext()).
		File("dispatch_handler").
		Function("triggerDispatch")

	user := middleware.GetUser(c)
	if user == nil {
		log.Warn("Unauthorized access attempt")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	appointmentID, err := c.ParamsInt("id")
	if err != nil || appointmentID <= 0 {
		log.Warn("Invalid appointment id", "param", c.Params("id"))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment id",
		})
	}

	result, err := h.dispatchController.TriggerDispatch(
		c.UserContext(), user, appointmentID, h.websocket)
	if err != nil {
		switch {
		case errors.Is(err, dispatchController.ErrRateLimited):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, dispatchController.ErrAlreadyDispatched):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		_ = log.Err("Failed to trigger dispatch", err,
			"appointmentID", appointmentID, "userID", user.ID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to trigger dispatch",
		})
	}

	return c.JSON(fiber.Map{
		"notifiedCount": result.NotifiedCount,
		"cleanerIds":    result.CleanerIDs,
	})
}
