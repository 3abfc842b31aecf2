package events

import (
	"time"

	"github.com/spec-kit/booking-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBookingCreated       EventType = "booking_created"
	EventBookingStatusChanged EventType = "booking_status_changed"
	EventBookingDeleted       EventType = "booking_deleted"
	EventRoomCreated          EventType = "room_created"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	BookingID string      `json:"booking_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	RoomID          string               `json:"room_id"`
	Code            string               `json:"code"`
	Date            string               `json:"date"`
	StartMinute     int                  `json:"start_minute"`
	EndMinute       int                  `json:"end_minute"`
	Status          domain.BookingStatus `json:"status"`
	PendingApproval bool                 `json:"pending_approval"`
}

// BookingStatusChangedPayload payload.
type BookingStatusChangedPayload struct {
	OldStatus domain.BookingStatus `json:"old_status"`
	NewStatus domain.BookingStatus `json:"new_status"`
	Reason    *string              `json:"reason,omitempty"`
}

// BookingDeletedPayload payload.
type BookingDeletedPayload struct {
	RoomID string `json:"room_id"`
	Code   string `json:"code"`
}

// RoomCreatedPayload payload.
type RoomCreatedPayload struct {
	RoomID      string             `json:"room_id"`
	Name        string             `json:"name"`
	AccessLevel domain.AccessLevel `json:"access_level"`
}
