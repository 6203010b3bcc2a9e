package ledger

import (
	"fmt"

	"chefmarket-booking/logger"
	ledgerService "chefmarket-booking/services/ledger"
	"chefmarket-booking/types"
	bookingTypes "chefmarket-booking/types/booking"
	"chefmarket-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LedgerController exposes ledger reads and the admin disposition
// settlement action.
type LedgerController struct {
	DB     *gorm.DB
	Ledger *ledgerService.Service
	Logger *logger.AsyncLogger
}

// NewLedgerController creates a new ledger controller
func NewLedgerController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *LedgerController {
	return &LedgerController{
		DB:     db,
		Ledger: ledgerService.NewService(db),
		Logger: asyncLogger,
	}
}

// Show returns the ledger entry for a booking. Admin only.
func (lc *LedgerController) Show(c *fiber.Ctx) error {
	entry, err := lc.Ledger.GetByBookingID(c.Params("bookingId"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Ledger entry not found",
			})
		}
		logger.Error("Failed to load ledger entry", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Ledger entry retrieved",
		Data:    entry,
	})
}

// SettleDisposition resolves funds a cancellation left undistributed. This
// is the manual operator step; nothing in the engine distributes these
// amounts automatically.
func (lc *LedgerController) SettleDisposition(c *fiber.Ctx) error {
	defer lc.Logger.Log(utils.CreateSanitizedLogEntry(c))

	var req bookingTypes.SettleDispositionRequest
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

	actor, err := utils.ActorFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}

	entry, err := lc.Ledger.SettleDisposition(req.BookingID, actor.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Ledger entry not found",
			})
		}
		logger.Error("Failed to settle disposition", err)
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "No pending disposition for this booking",
		})
	}

	logger.Success(fmt.Sprintf("Disposition of %s settled for booking %s by %s",
		utils.FormatCents(entry.HeldForDispositionCents), req.BookingID, actor.ID))

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Disposition settled",
		Data:    entry,
	})
}
