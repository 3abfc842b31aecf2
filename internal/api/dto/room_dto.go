package dto

import (
	"time"

	"github.com/spec-kit/booking-service/internal/domain"
)

// RoomRequest payload for create/update.
type RoomRequest struct {
	Name        string `json:"name"`
	Capacity    int    `json:"capacity"`
	Category    string `json:"category"`
	AccessLevel string `json:"access_level"`
}

// RoomResponse response.
type RoomResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Capacity    int                 `json:"capacity"`
	Category    domain.RoomCategory `json:"category"`
	AccessLevel domain.AccessLevel  `json:"access_level"`
	CreatorID   string              `json:"creator_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// NewRoomResponse maps a domain room.
func NewRoomResponse(room *domain.Room) RoomResponse {
	return RoomResponse{
		ID:          room.ID,
		Name:        room.Name,
		Capacity:    room.Capacity,
		Category:    room.Category,
		AccessLevel: room.AccessLevel,
		CreatorID:   room.CreatorID,
		CreatedAt:   room.CreatedAt,
		UpdatedAt:   room.UpdatedAt,
	}
}
