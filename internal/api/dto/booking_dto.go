package dto

import (
	"fmt"
	"time"

	"github.com/spec-kit/booking-service/internal/domain"
)

// CreateBookingRequest payload. Date is "2006-01-02"; times are "15:04"
// wall-clock.
type CreateBookingRequest struct {
	Name           string   `json:"name"`
	RoomID         string   `json:"room_id"`
	Date           string   `json:"date"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	ParticipantIDs []string `json:"participant_ids"`
}

// TransitionBookingRequest payload for approve/reject.
type TransitionBookingRequest struct {
	Action string  `json:"action"`
	Reason *string `json:"reason"`
}

// CancelBookingRequest payload.
type CancelBookingRequest struct {
	Reason *string `json:"reason"`
}

// BookingSummary response.
type BookingSummary struct {
	ID                 string               `json:"id"`
	Code               string               `json:"code"`
	Name               string               `json:"name"`
	RoomID             string               `json:"room_id"`
	CreatorID          string               `json:"creator_id"`
	Date               string               `json:"date"`
	StartTime          string               `json:"start_time"`
	EndTime            string               `json:"end_time"`
	Status             domain.BookingStatus `json:"status"`
	CancellationReason *string              `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// BookingDetailResponse expands the creator, room and participants.
type BookingDetailResponse struct {
	BookingSummary
	Creator      *UserSummary  `json:"creator,omitempty"`
	Room         *RoomResponse `json:"room,omitempty"`
	Participants []UserSummary `json:"participants"`
}

// NewBookingSummary maps a domain booking.
func NewBookingSummary(booking *domain.Booking) BookingSummary {
	return BookingSummary{
		ID:                 booking.ID,
		Code:               booking.Code,
		Name:               booking.Name,
		RoomID:             booking.RoomID,
		CreatorID:          booking.CreatorID,
		Date:               booking.Date.Format("2006-01-02"),
		StartTime:          FormatClock(booking.StartMinute),
		EndTime:            FormatClock(booking.EndMinute),
		Status:             booking.Status,
		CancellationReason: booking.CancellationReason,
		CreatedAt:          booking.CreatedAt,
		UpdatedAt:          booking.UpdatedAt,
	}
}

// NewBookingDetail maps a booking with expanded relations.
func NewBookingDetail(booking *domain.Booking) BookingDetailResponse {
	detail := BookingDetailResponse{
		BookingSummary: NewBookingSummary(booking),
		Participants:   make([]UserSummary, 0, len(booking.Participants)),
	}
	if booking.Creator != nil {
		creator := NewUserSummary(booking.Creator)
		detail.Creator = &creator
	}
	if booking.Room != nil {
		room := NewRoomResponse(booking.Room)
		detail.Room = &room
	}
	for i := range booking.Participants {
		detail.Participants = append(detail.Participants, NewUserSummary(&booking.Participants[i]))
	}
	return detail
}

// ParseClock converts "15:04" to minutes since midnight.
func ParseClock(raw string) (int, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", raw)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock converts minutes since midnight back to "15:04".
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// ParseDate converts "2006-01-02" to a wall-clock day.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return t, nil
}
