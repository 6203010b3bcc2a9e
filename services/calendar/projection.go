// Package calendar maintains the chef-facing schedule projection. Rows that
// mirror bookings are derived state: corrupt or missing ones can always be
// rebuilt from the bookings table.
package calendar

import (
	"fmt"
	"time"

	bookingModel "chefmarket-booking/models/booking"
	calendarModel "chefmarket-booking/models/calendar"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service maintains calendar event rows.
type Service struct {
	DB *gorm.DB
}

// NewService creates a new calendar service
func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// UpsertFromBooking creates or refreshes the calendar projection of a
// booking inside the caller's transaction. The projection shares the
// booking's id so the mapping stays one-to-one.
func UpsertFromBooking(tx *gorm.DB, b *bookingModel.Booking) error {
	var existing calendarModel.CalendarEvent
	err := tx.Where("booking_id = ?", b.ID).First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		ev := calendarModel.CalendarEvent{
			ID:         b.ID,
			ChefID:     b.ChefID,
			BookingID:  &b.ID,
			Source:     calendarModel.EventSourceBooking,
			Title:      b.EventTitle,
			EventDate:  b.EventDate,
			Pax:        b.Pax,
			PriceCents: b.TotalPriceCents,
			Status:     b.Status.String(),
		}
		return tx.Create(&ev).Error
	}
	if err != nil {
		return fmt.Errorf("failed to load calendar event: %w", err)
	}

	existing.Title = b.EventTitle
	existing.EventDate = b.EventDate
	existing.Pax = b.Pax
	existing.PriceCents = b.TotalPriceCents
	existing.Status = b.Status.String()
	return tx.Save(&existing).Error
}

// RebuildForChef discards and regenerates every booking-backed calendar row
// for a chef from the bookings table. Standalone posts are untouched.
func (s *Service) RebuildForChef(chefID string) (int, error) {
	var bookings []bookingModel.Booking
	if err := s.DB.Where("chef_id = ?", chefID).Find(&bookings).Error; err != nil {
		return 0, fmt.Errorf("failed to load bookings: %w", err)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chef_id = ? AND source = ?", chefID, calendarModel.EventSourceBooking).
			Delete(&calendarModel.CalendarEvent{}).Error; err != nil {
			return err
		}
		for i := range bookings {
			if err := UpsertFromBooking(tx, &bookings[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(bookings), nil
}

// CreatePost adds a standalone public event post to a chef's calendar.
func (s *Service) CreatePost(chefID, title string, eventDate time.Time, pax int, priceCents int64) (*calendarModel.CalendarEvent, error) {
	post := calendarModel.CalendarEvent{
		ID:         uuid.NewString(),
		ChefID:     chefID,
		Source:     calendarModel.EventSourcePost,
		Title:      title,
		EventDate:  eventDate,
		Pax:        pax,
		PriceCents: priceCents,
		Status:     "posted",
	}
	if err := s.DB.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("failed to create calendar post: %w", err)
	}
	return &post, nil
}

// ListForChef returns all calendar entries in a chef's namespace ordered by
// event date.
func (s *Service) ListForChef(chefID string) ([]calendarModel.CalendarEvent, error) {
	var events []calendarModel.CalendarEvent
	if err := s.DB.Where("chef_id = ?", chefID).
		Order("event_date ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
