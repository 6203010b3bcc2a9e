package request

import (
	"chefmarket-booking/logger"
	requestModel "chefmarket-booking/models/request"
	"chefmarket-booking/types"
	"chefmarket-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequestController serves customer request reads for the history UI. The
// proposal flow that creates and mutates requests lives in an external
// service; the engine only reads them and flips their status on payment.
type RequestController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewRequestController creates a new request controller
func NewRequestController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *RequestController {
	return &RequestController{
		DB:     db,
		Logger: asyncLogger,
	}
}

// Index lists the authenticated customer's requests, newest first.
func (rc *RequestController) Index(c *fiber.Ctx) error {
	actor, err := utils.ActorFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}

	var requests []requestModel.CustomerRequest
	if err := rc.DB.Where("customer_id = ?", actor.ID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		logger.Error("Failed to list customer requests", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Requests retrieved",
		Data:    requests,
	})
}

// Show returns one customer request.
func (rc *RequestController) Show(c *fiber.Ctx) error {
	actor, err := utils.ActorFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}

	var req requestModel.CustomerRequest
	if err := rc.DB.Where("id = ?", c.Params("id")).First(&req).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Request not found",
			})
		}
		logger.Error("Failed to load customer request", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	if req.CustomerID != actor.ID {
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Request belongs to a different customer",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Request retrieved",
		Data:    req,
	})
}
