package booking

import (
	"testing"
	"time"

	bookingModel "chefmarket-booking/models/booking"
	calendarModel "chefmarket-booking/models/calendar"
	ledgerModel "chefmarket-booking/models/ledger"
	requestModel "chefmarket-booking/models/request"
	"chefmarket-booking/services/policy"
	"chefmarket-booking/services/verifier"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access test database: %v", err)
	}
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&requestModel.CustomerRequest{},
		&bookingModel.Booking{},
		&bookingModel.BookingStatusEvent{},
		&ledgerModel.LedgerEntry{},
		&calendarModel.CalendarEvent{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return db
}

func seedProposedRequest(t *testing.T, db *gorm.DB) *requestModel.CustomerRequest {
	t.Helper()

	req := requestModel.CustomerRequest{
		ID:           "req-1",
		CustomerID:   "cust-1",
		CustomerName: "Dana",
		EventType:    "Birthday Dinner",
		GuestCount:   10,
		EventDate:    time.Now().Add(30 * 24 * time.Hour),
		Status:       requestModel.RequestStatusProposed,
		ActiveProposal: &requestModel.Proposal{
			ChefID:            "chef-1",
			ChefName:          "Kim",
			Menu:              "Five course tasting",
			PricePerHeadCents: 10000,
		},
	}
	if err := db.Create(&req).Error; err != nil {
		t.Fatalf("failed to seed request: %v", err)
	}
	return &req
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}

func TestConfirmPaymentIdempotentPerIntent(t *testing.T) {
	db := newTestDB(t)
	seedProposedRequest(t, db)
	svc := NewService(db)

	first, err := svc.ConfirmPayment("req-1", "cust-1", "pi_100")
	if err != nil {
		t.Fatalf("first confirmation failed: %v", err)
	}
	if first.Status != bookingModel.BookingStatusConfirmed {
		t.Errorf("booking status = %s, want confirmed", first.Status)
	}
	if first.TotalPriceCents != 100000 {
		t.Errorf("total price = %d, want 100000", first.TotalPriceCents)
	}

	second, err := svc.ConfirmPayment("req-1", "cust-1", "pi_100")
	if err != nil {
		t.Fatalf("redelivered confirmation failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("redelivery created booking %s, want existing %s", second.ID, first.ID)
	}

	if got := countRows(t, db, &bookingModel.Booking{}); got != 1 {
		t.Errorf("booking count = %d, want 1", got)
	}
	if got := countRows(t, db, &ledgerModel.LedgerEntry{}); got != 1 {
		t.Errorf("ledger entry count = %d, want 1", got)
	}

	var entry ledgerModel.LedgerEntry
	if err := db.Where("booking_id = ?", first.ID).First(&entry).Error; err != nil {
		t.Fatalf("failed to load ledger entry: %v", err)
	}
	if entry.ImmediateChefCents != 46000 || entry.ImmediatePlatformCents != 4000 || entry.HeldEscrowCents != 50000 {
		t.Errorf("split = %d/%d/%d, want 46000/4000/50000",
			entry.ImmediateChefCents, entry.ImmediatePlatformCents, entry.HeldEscrowCents)
	}

	var req requestModel.CustomerRequest
	if err := db.Where("id = ?", "req-1").First(&req).Error; err != nil {
		t.Fatalf("failed to reload request: %v", err)
	}
	if req.Status != requestModel.RequestStatusBooked {
		t.Errorf("request status = %s, want booked", req.Status)
	}
}

func TestConfirmPaymentRejectsBookedRequest(t *testing.T) {
	db := newTestDB(t)
	seedProposedRequest(t, db)
	svc := NewService(db)

	if _, err := svc.ConfirmPayment("req-1", "cust-1", "pi_100"); err != nil {
		t.Fatalf("first confirmation failed: %v", err)
	}

	if _, err := svc.ConfirmPayment("req-1", "cust-1", "pi_200"); err != ErrRequestNotBookable {
		t.Errorf("second intent for booked request: err = %v, want ErrRequestNotBookable", err)
	}
	if got := countRows(t, db, &bookingModel.Booking{}); got != 1 {
		t.Errorf("booking count = %d, want 1", got)
	}
}

func TestConfirmPaymentSecondIntentCannotDoubleBook(t *testing.T) {
	db := newTestDB(t)
	seedProposedRequest(t, db)
	svc := NewService(db)

	if _, err := svc.ConfirmPayment("req-1", "cust-1", "pi_100"); err != nil {
		t.Fatalf("first confirmation failed: %v", err)
	}

	// Emulate the stale read a concurrent writer acts on: the request looks
	// proposed to the second confirmation even though a booking already
	// exists. The unique request_id index must refuse the second booking.
	if err := db.Model(&requestModel.CustomerRequest{}).
		Where("id = ?", "req-1").
		Update("status", requestModel.RequestStatusProposed).Error; err != nil {
		t.Fatalf("failed to reset request status: %v", err)
	}

	if _, err := svc.ConfirmPayment("req-1", "cust-1", "pi_200"); err == nil {
		t.Fatal("second intent created a booking for an already-booked request")
	}

	if got := countRows(t, db, &bookingModel.Booking{}); got != 1 {
		t.Errorf("booking count = %d, want 1", got)
	}
	if got := countRows(t, db, &ledgerModel.LedgerEntry{}); got != 1 {
		t.Errorf("ledger entry count = %d, want 1", got)
	}
}

func TestRecordCompletionWrongIdentifierLeavesState(t *testing.T) {
	db := newTestDB(t)
	seedProposedRequest(t, db)
	svc := NewService(db)

	b, err := svc.ConfirmPayment("req-1", "cust-1", "pi_100")
	if err != nil {
		t.Fatalf("confirmation failed: %v", err)
	}

	if _, err := svc.RecordCompletion(b.ID, "not-the-identifier", "chef-1"); err != verifier.ErrIdentifierMismatch {
		t.Fatalf("wrong identifier: err = %v, want ErrIdentifierMismatch", err)
	}

	reloaded, err := svc.GetByID(b.ID)
	if err != nil {
		t.Fatalf("failed to reload booking: %v", err)
	}
	if reloaded.Status != bookingModel.BookingStatusConfirmed {
		t.Errorf("status after mismatch = %s, want confirmed", reloaded.Status)
	}
	if reloaded.QRCodeScannedAt != nil {
		t.Error("qr_code_scanned_at set after mismatch")
	}
	if reloaded.CompletionAttempts != 1 {
		t.Errorf("completion attempts = %d, want 1", reloaded.CompletionAttempts)
	}

	var entry ledgerModel.LedgerEntry
	if err := db.Where("booking_id = ?", b.ID).First(&entry).Error; err != nil {
		t.Fatalf("failed to load ledger entry: %v", err)
	}
	if entry.ReleasedAt != nil {
		t.Error("escrow released after mismatch")
	}
}

func TestRecordCompletionBlocksAfterMaxAttempts(t *testing.T) {
	db := newTestDB(t)
	seedProposedRequest(t, db)
	svc := NewService(db)

	b, err := svc.ConfirmPayment("req-1", "cust-1", "pi_100")
	if err != nil {
		t.Fatalf("confirmation failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, err := svc.RecordCompletion(b.ID, "wrong", "chef-1"); err != verifier.ErrIdentifierMismatch {
			t.Fatalf("attempt %d: err = %v, want ErrIdentifierMismatch", i+1, err)
		}
	}

	// The cooldown applies even to the correct identifier.
	if _, err := svc.RecordCompletion(b.ID, b.ID, "chef-1"); err != verifier.ErrVerificationBlocked {
		t.Fatalf("blocked attempt: err = %v, want ErrVerificationBlocked", err)
	}

	reloaded, err := svc.GetByID(b.ID)
	if err != nil {
		t.Fatalf("failed to reload booking: %v", err)
	}
	if reloaded.Status != bookingModel.BookingStatusConfirmed {
		t.Errorf("status while blocked = %s, want confirmed", reloaded.Status)
	}
	if reloaded.CompletionBlockedUntil == nil {
		t.Error("completion_blocked_until not set after max attempts")
	}
}

func TestRecordCompletionReleasesEscrow(t *testing.T) {
	db := newTestDB(t)
	seedProposedRequest(t, db)
	svc := NewService(db)

	b, err := svc.ConfirmPayment("req-1", "cust-1", "pi_100")
	if err != nil {
		t.Fatalf("confirmation failed: %v", err)
	}

	completed, err := svc.RecordCompletion(b.ID, b.ID, "chef-1")
	if err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	if completed.Status != bookingModel.BookingStatusCompleted {
		t.Errorf("status = %s, want completed", completed.Status)
	}
	if completed.QRCodeScannedAt == nil {
		t.Error("qr_code_scanned_at not set")
	}

	var entry ledgerModel.LedgerEntry
	if err := db.Where("booking_id = ?", b.ID).First(&entry).Error; err != nil {
		t.Fatalf("failed to load ledger entry: %v", err)
	}
	if entry.ReleasedAt == nil {
		t.Error("escrow not released on completion")
	}
}

func TestCancelConfirmedBookingLate(t *testing.T) {
	db := newTestDB(t)
	req := seedProposedRequest(t, db)
	svc := NewService(db)

	b, err := svc.ConfirmPayment("req-1", "cust-1", "pi_100")
	if err != nil {
		t.Fatalf("confirmation failed: %v", err)
	}

	nowTime := req.EventDate.Add(-10 * 24 * time.Hour)
	cancelled, split, err := svc.Cancel(b.ID, policy.InitiatorCustomer, "cust-1", nowTime)
	if err != nil {
		t.Fatalf("cancellation failed: %v", err)
	}
	if cancelled.Status != bookingModel.BookingStatusCancelledByCustomer {
		t.Errorf("status = %s, want cancelled_by_customer", cancelled.Status)
	}
	if split.RefundToCustomerCents != 20000 || split.ChefCompensationCents != 15000 ||
		split.PlatformCompensationCents != 15000 || split.HeldForDispositionCents != 50000 {
		t.Errorf("late cancellation split = %d/%d/%d/%d, want 20000/15000/15000/50000",
			split.RefundToCustomerCents, split.ChefCompensationCents,
			split.PlatformCompensationCents, split.HeldForDispositionCents)
	}

	var entry ledgerModel.LedgerEntry
	if err := db.Where("booking_id = ?", b.ID).First(&entry).Error; err != nil {
		t.Fatalf("failed to load ledger entry: %v", err)
	}
	if entry.DispositionStatus == nil || *entry.DispositionStatus != ledgerModel.DispositionPending {
		t.Error("held funds not marked disposition_pending")
	}
}

func TestCancelCompletedBookingRejected(t *testing.T) {
	db := newTestDB(t)
	req := seedProposedRequest(t, db)
	svc := NewService(db)

	b, err := svc.ConfirmPayment("req-1", "cust-1", "pi_100")
	if err != nil {
		t.Fatalf("confirmation failed: %v", err)
	}
	if _, err := svc.RecordCompletion(b.ID, b.ID, "chef-1"); err != nil {
		t.Fatalf("completion failed: %v", err)
	}

	_, _, err = svc.Cancel(b.ID, policy.InitiatorCustomer, "cust-1", req.EventDate.Add(-24*time.Hour))
	if err != ErrPolicyViolation {
		t.Errorf("cancel after completion: err = %v, want ErrPolicyViolation", err)
	}
}
