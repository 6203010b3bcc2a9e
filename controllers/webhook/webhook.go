package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"chefmarket-booking/logger"
	bookingService "chefmarket-booking/services/booking"
	"chefmarket-booking/types"
	webhookTypes "chefmarket-booking/types/webhook"
	"chefmarket-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SignatureHeader carries the processor's HMAC over the raw request body.
const SignatureHeader = "X-Payment-Signature"

// WebhookController receives asynchronous payment-outcome notifications.
// Delivery is at least once; correctness rests on ConfirmPayment's
// idempotency, not on deduplication here.
type WebhookController struct {
	DB      *gorm.DB
	Booking *bookingService.Service
	Logger  *logger.AsyncLogger
}

// NewWebhookController creates a new webhook controller
func NewWebhookController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *WebhookController {
	return &WebhookController{
		DB:      db,
		Booking: bookingService.NewService(db),
		Logger:  asyncLogger,
	}
}

// VerifySignature checks the hex-encoded HMAC-SHA256 of the payload against
// the shared signing secret. Constant-time comparison.
func VerifySignature(payload []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	return hmac.Equal(expected, provided)
}

// HandlePaymentNotification is the processor-facing intake endpoint.
//
// The payload is authenticated before any parsing; unauthenticated payloads
// are rejected with no detail. A server error on the persistence path makes
// the processor redeliver, which is the desired recovery given idempotency.
func (wc *WebhookController) HandlePaymentNotification(c *fiber.Ctx) error {
	defer wc.Logger.Log(utils.CreateSanitizedLogEntry(c))

	body := c.Body()
	signature := c.Get(SignatureHeader)
	secret := os.Getenv("PAYMENT_WEBHOOK_SECRET")

	if !VerifySignature(body, signature, secret) {
		logger.Warning("Rejected payment notification with invalid signature")
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var notification webhookTypes.PaymentNotification
	if err := json.Unmarshal(body, &notification); err != nil {
		logger.Error("Failed to parse payment notification", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid notification payload",
		})
	}

	switch notification.Type {
	case webhookTypes.TypePaymentSucceeded:
		return wc.handlePaymentSucceeded(c, notification)

	case webhookTypes.TypePaymentFailed:
		return wc.handlePaymentFailed(c, notification)

	default:
		// Unknown notification types are acknowledged and ignored.
		logger.Info(fmt.Sprintf("Ignoring unknown notification type: %s", notification.Type))
		return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "Notification acknowledged",
		})
	}
}

func (wc *WebhookController) handlePaymentSucceeded(c *fiber.Ctx, n webhookTypes.PaymentNotification) error {
	if n.PaymentIntentID == "" {
		logger.Critical("payment_succeeded notification without payment intent id", nil)
		return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "Notification acknowledged",
		})
	}

	// Metadata loss is not transient: the money was captured but cannot be
	// linked to a request. Acknowledge so the processor stops retrying, and
	// surface for manual operator intervention.
	if n.Metadata.RequestID == "" || n.Metadata.CustomerID == "" {
		logger.Critical(fmt.Sprintf(
			"payment_succeeded for intent %s is missing linkage metadata (request_id=%q, customer_id=%q); manual reconciliation required",
			n.PaymentIntentID, n.Metadata.RequestID, n.Metadata.CustomerID), nil)
		return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "Notification acknowledged",
		})
	}

	b, err := wc.Booking.ConfirmPayment(n.Metadata.RequestID, n.Metadata.CustomerID, n.PaymentIntentID)
	if err != nil {
		if err == bookingService.ErrRequestNotBookable {
			// Not retryable: redelivery cannot make the request bookable.
			logger.Critical(fmt.Sprintf("payment_succeeded for intent %s references unbookable request %s",
				n.PaymentIntentID, n.Metadata.RequestID), nil)
			return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
				Status:  fiber.StatusOK,
				Message: "Notification acknowledged",
			})
		}

		// Transient persistence failure: a server error makes the
		// processor redeliver.
		logger.Error("Failed to confirm payment from notification", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to process notification",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Payment confirmed",
		Data:    fiber.Map{"booking_id": b.ID},
	})
}

func (wc *WebhookController) handlePaymentFailed(c *fiber.Ctx, n webhookTypes.PaymentNotification) error {
	if n.Metadata.RequestID == "" {
		logger.Warning("payment_failed notification without request id, acknowledging")
		return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "Notification acknowledged",
		})
	}

	// Best effort: no money moved, a lost marker only delays the customer's
	// retry hint.
	if err := wc.Booking.MarkPaymentFailed(n.Metadata.RequestID); err != nil {
		logger.Error("Failed to mark payment failure", err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Notification acknowledged",
	})
}
