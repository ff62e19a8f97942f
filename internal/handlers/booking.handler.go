package handlers

import (
	"errors"

	"brightnest/internal/app"
	bookingController "brightnest/internal/controllers/booking"
	"brightnest/internal/handlers/middleware"
	"brightnest/internal/logger"
	"brightnest/internal/services"

	"github.com/gofiber/fiber/v2"
)

type BookingHandler struct {
	Handler
	bookingController bookingController.BookingControllerInterface
	authService       *services.AuthService
}

func NewBookingHandler(app app.App, router fiber.Router) *BookingHandler {
	log := logger.New("handlers").File("booking_handler")
	return &BookingHandler{
		bookingController: app.Controllers.Booking,
		authService:       app.Services.Auth,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *BookingHandler) Register() {
	appointments := h.router.Group("/appointments")

	protected := appointments.Group("/", h.middleware.RequireAuth(h.authService))
	protected.Post("/:id/book", h.bookAppointment)
}

func (h *BookingHandler) bookAppointment(c *fiber.Ctx) error {
	log := logger.New("handlers").
		TraceFromContext(c.UserContext()).
		File("booking_handler").
		Function("bookAppointment")

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

	outcome, err := h.bookingController.Book(c.UserContext(), user, appointmentID)
	if err != nil {
		if errors.Is(err, bookingController.ErrDuplicateRequest) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		_ = log.Err("Failed to book appointment", err,
			"appointmentID", appointmentID, "userID", user.ID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to book appointment",
		})
	}

	return c.JSON(fiber.Map{
		"message":     outcome.Decision.Message,
		"action":      outcome.Decision.Action,
		"appointment": outcome.Appointment,
	})
}
