package booking_event

import (
	bookingModel "chefmarket-booking/models/booking"

	"gorm.io/gorm"
)

// RecordStatusEvent appends a status history row for a booking inside the
// caller's transaction. Events are many per booking and never updated.
func RecordStatusEvent(tx *gorm.DB, bookingID string, status bookingModel.BookingStatus, eventType, createdBy string) error {
	ev := bookingModel.BookingStatusEvent{
		BookingID: bookingID,
		Status:    status,
		EventType: eventType,
		CreatedBy: createdBy,
	}
	return tx.Create(&ev).Error
}
