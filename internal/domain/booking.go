package domain

import (
	"fmt"
	"time"
)

// BookingStatus enumerates lifecycle states for bookings.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Valid reports whether the status is defined.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusActive, BookingStatusCancelled:
		return true
	}
	return false
}

// ParseBookingStatus validates a raw status string.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	status := BookingStatus(raw)
	if !status.Valid() {
		return "", fmt.Errorf("unknown booking status %q", raw)
	}
	return status, nil
}

// Booking reserves one room for one creator over a half-open minute interval
// [StartMinute, EndMinute) on a single wall-clock day. Participants are the
// invited users, order irrelevant. Cancelled bookings keep their interval but
// never count for conflicts.
type Booking struct {
	ID                 string
	Code               string
	Name               string
	RoomID             string
	CreatorID          string
	Date               time.Time
	StartMinute        int
	EndMinute          int
	Status             BookingStatus
	CancellationReason *string
	ParticipantIDs     []string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Expanded relations, populated on detail reads.
	Creator      *User
	Room         *Room
	Participants []User
}

// DurationMinutes returns the length of the reserved interval.
func (b *Booking) DurationMinutes() int {
	return b.EndMinute - b.StartMinute
}
