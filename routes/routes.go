package routes

import (
	"os"

	"chefmarket-booking/constants"
	bookingController "chefmarket-booking/controllers/booking"
	calendarController "chefmarket-booking/controllers/calendar"
	ledgerController "chefmarket-booking/controllers/ledger"
	requestController "chefmarket-booking/controllers/request"
	webhookController "chefmarket-booking/controllers/webhook"
	"chefmarket-booking/httpServices/payments"
	"chefmarket-booking/logger"
	"chefmarket-booking/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	paymentsClient := payments.NewClient(os.Getenv("PAYMENT_BASE_URL"), os.Getenv("PAYMENT_API_KEY"))
	asyncLogger := logger.NewAsyncLogger(db)

	bookings := bookingController.NewBookingController(db, paymentsClient, asyncLogger)
	webhooks := webhookController.NewWebhookController(db, asyncLogger)
	calendars := calendarController.NewCalendarController(db, asyncLogger)
	requests := requestController.NewRequestController(db, asyncLogger)
	ledgers := ledgerController.NewLedgerController(db, asyncLogger)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	/*=============================================================================
	| Processor-facing route (authenticated by payload signature, not JWT)
	===============================================================================*/
	api := app.Group("/api")
	api.Post("/webhooks/payments", webhooks.HandlePaymentNotification)

	/*=============================================================================
	| Booking Routes
	===============================================================================*/
	bookingGroup := api.Group("/booking")

	bookingGroup.Post("/initiate-confirmation", middleware.RequireRoles(
		constants.RoleCustomer,
	), bookings.InitiateConfirmation)

	bookingGroup.Post("/complete", middleware.RequireRoles(
		constants.RoleChef,
	), bookings.RecordCompletion)

	bookingGroup.Post("/cancel", middleware.RequireRoles(
		constants.RoleCustomer, constants.RoleChef,
	), bookings.Cancel)

	bookingGroup.Get("/history", middleware.RequireAuthentication(), bookings.History)
	bookingGroup.Get("/:id", middleware.RequireAuthentication(), bookings.Show)

	/*=============================================================================
	| Customer Request Routes (read side for the history UI)
	===============================================================================*/
	requestGroup := api.Group("/requests").Use(middleware.RequireRoles(constants.RoleCustomer))
	requestGroup.Get("/", requests.Index)
	requestGroup.Get("/:id", requests.Show)

	/*=============================================================================
	| Calendar Routes (chef schedule projection)
	===============================================================================*/
	calendarGroup := api.Group("/calendar").Use(middleware.RequireRoles(constants.RoleChef))
	calendarGroup.Get("/", calendars.Index)
	calendarGroup.Post("/posts", calendars.StorePost)
	calendarGroup.Post("/rebuild", calendars.Rebuild)

	/*=============================================================================
	| Admin Routes
	===============================================================================*/
	adminGroup := api.Group("/admin").Use(middleware.RequireRoles(constants.RoleAdmin))
	adminGroup.Get("/ledger/:bookingId", ledgers.Show)
	adminGroup.Post("/ledger/settle-disposition", ledgers.SettleDisposition)
}
