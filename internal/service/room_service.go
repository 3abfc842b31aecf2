package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/events"
	"github.com/spec-kit/booking-service/internal/policy"
	"github.com/spec-kit/booking-service/internal/repository"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// RoomService coordinates room management and access-filtered listings.
type RoomService struct {
	rooms      repository.RoomRepository
	dispatcher events.Dispatcher
}

// NewRoomService constructs the service.
func NewRoomService(rooms repository.RoomRepository, dispatcher events.Dispatcher) *RoomService {
	return &RoomService{rooms: rooms, dispatcher: dispatcher}
}

// RoomInput describes room create/update payloads.
type RoomInput struct {
	Name        string
	Capacity    int
	Category    domain.RoomCategory
	AccessLevel domain.AccessLevel
}

// ListAccessible returns the rooms a role may book, ordered by name.
func (s *RoomService) ListAccessible(ctx context.Context, role domain.Role) ([]domain.Room, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	accessible := make([]domain.Room, 0, len(rooms))
	for _, room := range rooms {
		if policy.HasRoomAccess(role, room.AccessLevel) {
			accessible = append(accessible, room)
		}
	}
	return accessible, nil
}

// ListAll returns every room regardless of access level.
func (s *RoomService) ListAll(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.List(ctx)
}

// Get returns a room by id.
func (s *RoomService) Get(ctx context.Context, roomID string) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("room", map[string]any{"room_id": roomID})
		}
		return nil, err
	}
	return room, nil
}

// Create adds a room. Admin accounts only.
func (s *RoomService) Create(ctx context.Context, actor *domain.User, input RoomInput) (*domain.Room, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("room management requires an admin account")
	}
	if err := validateRoomInput(input); err != nil {
		return nil, err
	}

	room := &domain.Room{
		Name:        strings.TrimSpace(input.Name),
		Capacity:    input.Capacity,
		Category:    input.Category,
		AccessLevel: input.AccessLevel,
		CreatorID:   actor.ID,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:    uuid.NewString(),
			Type:  events.EventRoomCreated,
			Actor: actorOf(actor),
			Payload: events.RoomCreatedPayload{
				RoomID:      room.ID,
				Name:        room.Name,
				AccessLevel: room.AccessLevel,
			},
		})
	}
	return room, nil
}

// Update edits a room. Admin accounts only.
func (s *RoomService) Update(ctx context.Context, actor *domain.User, roomID string, input RoomInput) (*domain.Room, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("room management requires an admin account")
	}
	if err := validateRoomInput(input); err != nil {
		return nil, err
	}

	room, err := s.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	room.Name = strings.TrimSpace(input.Name)
	room.Capacity = input.Capacity
	room.Category = input.Category
	room.AccessLevel = input.AccessLevel

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, apperrors.MapError(err)
	}
	return room, nil
}

// Delete removes a room. Admin accounts only. Bookings cascade.
func (s *RoomService) Delete(ctx context.Context, actor *domain.User, roomID string) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("room management requires an admin account")
	}
	if err := s.rooms.Delete(ctx, roomID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("room", map[string]any{"room_id": roomID})
		}
		return err
	}
	return nil
}

func validateRoomInput(input RoomInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.NewValidationError("room name required", nil)
	}
	if input.Capacity <= 0 {
		return apperrors.NewValidationError("room capacity must be positive", nil)
	}
	if !input.Category.Valid() {
		return apperrors.NewValidationError("unknown room category", nil)
	}
	if !input.AccessLevel.Valid() {
		return apperrors.NewValidationError("unknown access level", nil)
	}
	return nil
}
