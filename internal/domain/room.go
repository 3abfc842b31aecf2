package domain

import (
	"fmt"
	"time"
)

// RoomCategory enumerates the kinds of bookable rooms.
type RoomCategory string

const (
	RoomCategoryMeeting         RoomCategory = "MEETING"
	RoomCategoryWorkspace       RoomCategory = "WORKSPACE"
	RoomCategoryTraining        RoomCategory = "TRAINING"
	RoomCategoryVideoconference RoomCategory = "VIDEOCONFERENCE"
)

// Valid reports whether the category is defined.
func (c RoomCategory) Valid() bool {
	switch c {
	case RoomCategoryMeeting, RoomCategoryWorkspace, RoomCategoryTraining, RoomCategoryVideoconference:
		return true
	}
	return false
}

// ParseRoomCategory validates a raw category string.
func ParseRoomCategory(raw string) (RoomCategory, error) {
	category := RoomCategory(raw)
	if !category.Valid() {
		return "", fmt.Errorf("unknown room category %q", raw)
	}
	return category, nil
}

// Room is a bookable resource. AccessLevel is the minimum role rank a user
// needs to see or book it.
type Room struct {
	ID          string
	Name        string
	Capacity    int
	Category    RoomCategory
	AccessLevel AccessLevel
	CreatorID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
