package calendar

import (
	"fmt"
	"time"

	"chefmarket-booking/logger"
	calendarService "chefmarket-booking/services/calendar"
	"chefmarket-booking/types"
	bookingTypes "chefmarket-booking/types/booking"
	"chefmarket-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CalendarController serves the chef-facing schedule projection.
type CalendarController struct {
	DB       *gorm.DB
	Calendar *calendarService.Service
	Logger   *logger.AsyncLogger
}

// NewCalendarController creates a new calendar controller
func NewCalendarController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *CalendarController {
	return &CalendarController{
		DB:       db,
		Calendar: calendarService.NewService(db),
		Logger:   asyncLogger,
	}
}

// Index lists the authenticated chef's schedule.
func (cc *CalendarController) Index(c *fiber.Ctx) error {
	actor, err := utils.ActorFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}

	events, err := cc.Calendar.ListForChef(actor.ID)
	if err != nil {
		logger.Error("Failed to list calendar events", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Calendar retrieved",
		Data:    events,
	})
}

// StorePost creates a standalone public event post on the chef's calendar.
func (cc *CalendarController) StorePost(c *fiber.Ctx) error {
	defer cc.Logger.Log(utils.CreateSanitizedLogEntry(c))

	var req bookingTypes.CalendarPostRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	// All dates normalize to RFC3339 at this boundary; business logic never
	// coerces timestamps itself.
	eventDate, err := time.Parse(time.RFC3339, req.EventDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "event_date must be RFC3339",
		})
	}

	actor, err := utils.ActorFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}

	post, err := cc.Calendar.CreatePost(actor.ID, req.Title, eventDate, req.Pax, req.PriceCents)
	if err != nil {
		logger.Error("Failed to create calendar post", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create calendar post",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Calendar post created",
		Data:    post,
	})
}

// Rebuild discards and regenerates the chef's booking-backed calendar rows.
// Safe at any time: the projection is derived state.
func (cc *CalendarController) Rebuild(c *fiber.Ctx) error {
	actor, err := utils.ActorFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}

	count, err := cc.Calendar.RebuildForChef(actor.ID)
	if err != nil {
		logger.Error("Failed to rebuild calendar", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to rebuild calendar",
		})
	}

	logger.Success(fmt.Sprintf("Rebuilt calendar for chef %s from %d bookings", actor.ID, count))

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Calendar rebuilt",
		Data:    fiber.Map{"bookings_projected": count},
	})
}
