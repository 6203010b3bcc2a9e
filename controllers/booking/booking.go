package booking

import (
	"fmt"
	"time"

	"chefmarket-booking/constants"
	"chefmarket-booking/httpServices/payments"
	"chefmarket-booking/logger"
	bookingModel "chefmarket-booking/models/booking"
	requestModel "chefmarket-booking/models/request"
	bookingService "chefmarket-booking/services/booking"
	"chefmarket-booking/services/policy"
	"chefmarket-booking/services/verifier"
	"chefmarket-booking/types"
	bookingTypes "chefmarket-booking/types/booking"
	"chefmarket-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BookingController handles booking-related HTTP requests
type BookingController struct {
	DB       *gorm.DB
	Booking  *bookingService.Service
	Payments *payments.Client
	Logger   *logger.AsyncLogger
}

// NewBookingController creates a new booking controller
func NewBookingController(db *gorm.DB, paymentsClient *payments.Client, asyncLogger *logger.AsyncLogger) *BookingController {
	return &BookingController{
		DB:       db,
		Booking:  bookingService.NewService(db),
		Payments: paymentsClient,
		Logger:   asyncLogger,
	}
}

// InitiateConfirmation creates a payment intent for an accepted proposal and
// hands the client secret back to the customer's UI. The request/customer
// ids ride along as opaque metadata and must round-trip unchanged through
// the processor.
func (bc *BookingController) InitiateConfirmation(c *fiber.Ctx) error {
	defer bc.Logger.Log(utils.CreateSanitizedLogEntry(c))

	var req bookingTypes.InitiateConfirmationRequest
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

	var customerRequest requestModel.CustomerRequest
	if err := bc.DB.Where("id = ?", req.RequestID).First(&customerRequest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Customer request not found",
			})
		}
		logger.Error("Failed to load customer request", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	if customerRequest.CustomerID != actor.ID {
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Request belongs to a different customer",
		})
	}

	if customerRequest.ActiveProposal == nil || !customerRequest.Status.CanBeBooked() {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Request has no accepted proposal to pay for",
		})
	}

	amountCents := customerRequest.ActiveProposal.PricePerHeadCents * int64(customerRequest.GuestCount)

	intent, err := bc.Payments.CreateIntent(payments.IntentRequest{
		AmountCents: amountCents,
		Currency:    "usd",
		Metadata: payments.IntentMetadata{
			RequestID:  customerRequest.ID,
			CustomerID: customerRequest.CustomerID,
		},
	})
	if err != nil {
		logger.Error("Failed to create payment intent", err)
		return c.Status(fiber.StatusBadGateway).JSON(types.ApiResponse{
			Status:  fiber.StatusBadGateway,
			Message: "Payment processor unavailable",
		})
	}

	logger.Success(fmt.Sprintf("Payment intent %s created for request %s (%s)",
		intent.ID, customerRequest.ID, utils.FormatCents(amountCents)))

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Payment intent created",
		Data: fiber.Map{
			"client_secret": intent.ClientSecret,
			"amount_cents":  amountCents,
		},
	})
}

// RecordCompletion validates the presented event-day identifier and settles
// the held escrow on a match. The chef-side UI calls this with either the
// scanned QR value or a typed identifier.
func (bc *BookingController) RecordCompletion(c *fiber.Ctx) error {
	defer bc.Logger.Log(utils.CreateSanitizedLogEntry(c))

	var req bookingTypes.CompleteBookingRequest
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

	b, err := bc.Booking.GetByID(req.BookingID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Booking not found",
			})
		}
		logger.Error("Failed to find booking", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	if actor.Role == constants.RoleChef && b.ChefID != actor.ID {
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Booking belongs to a different chef",
		})
	}

	completed, err := bc.Booking.RecordCompletion(req.BookingID, req.PresentedIdentifier, actor.ID)
	if err != nil {
		switch err {
		case verifier.ErrIdentifierMismatch:
			// Never reveal the correct identifier.
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Identifier does not match this booking",
			})
		case verifier.ErrVerificationBlocked:
			return c.Status(fiber.StatusTooManyRequests).JSON(types.ApiResponse{
				Status:  fiber.StatusTooManyRequests,
				Message: "Too many failed attempts, try again later",
			})
		case bookingService.ErrInvalidTransition:
			return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "Booking cannot be completed from its current state",
			})
		default:
			logger.Error("Failed to record completion", err)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Internal server error",
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking completed",
		Data:    fiber.Map{"status": completed.Status},
	})
}

// Cancel runs the policy evaluator against a confirmed booking and applies
// the resulting refund split. The initiator sees their own figure only.
func (bc *BookingController) Cancel(c *fiber.Ctx) error {
	defer bc.Logger.Log(utils.CreateSanitizedLogEntry(c))

	var req bookingTypes.CancelBookingRequest
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

	initiator, ok := policy.InitiatorFromRole(actor.Role)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Only customers and chefs may cancel bookings",
		})
	}

	b, err := bc.Booking.GetByID(req.BookingID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Booking not found",
			})
		}
		logger.Error("Failed to find booking", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	switch initiator {
	case policy.InitiatorCustomer:
		if b.CustomerID != actor.ID {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Status:  fiber.StatusForbidden,
				Message: "Booking belongs to a different customer",
			})
		}
	case policy.InitiatorChef:
		if b.ChefID != actor.ID {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Status:  fiber.StatusForbidden,
				Message: "Booking belongs to a different chef",
			})
		}
	}

	cancelled, split, err := bc.Booking.Cancel(req.BookingID, initiator, actor.ID, time.Now())
	if err != nil {
		switch err {
		case bookingService.ErrPolicyViolation, bookingService.ErrInvalidTransition:
			return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "Booking cannot be cancelled from its current state",
			})
		default:
			logger.Error("Failed to cancel booking", err)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Internal server error",
			})
		}
	}

	resp := bookingTypes.CancellationResponse{
		BookingID:    cancelled.ID,
		Status:       cancelled.Status.String(),
		RefundAmount: utils.FormatCents(split.RefundToCustomerCents),
	}
	// The chef sees only their own compensation figure.
	if initiator == policy.InitiatorChef {
		resp.Compensation = utils.FormatCents(split.ChefCompensationCents)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking cancelled",
		Data:    resp,
	})
}

// Show returns a booking for its customer or chef.
func (bc *BookingController) Show(c *fiber.Ctx) error {
	actor, err := utils.ActorFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}

	b, err := bc.Booking.GetByID(c.Params("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Booking not found",
			})
		}
		logger.Error("Failed to find booking", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	if actor.Role != constants.RoleAdmin && b.CustomerID != actor.ID && b.ChefID != actor.ID {
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Not a party to this booking",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking retrieved",
		Data:    b,
	})
}

// History lists the caller's bookings, newest first.
func (bc *BookingController) History(c *fiber.Ctx) error {
	actor, err := utils.ActorFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}

	column := "customer_id"
	if actor.Role == constants.RoleChef {
		column = "chef_id"
	}

	var bookings []bookingModel.Booking
	if err := bc.DB.
		Where(column+" = ?", actor.ID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		logger.Error("Failed to list bookings", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Bookings retrieved",
		Data:    bookings,
	})
}
