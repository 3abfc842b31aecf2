package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booking-service/internal/api/dto"
	"github.com/spec-kit/booking-service/internal/auth"
	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/service"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// RoomsHandler exposes room endpoints.
type RoomsHandler struct {
	service *service.RoomService
}

// NewRoomsHandler constructs handler.
func NewRoomsHandler(roomService *service.RoomService) *RoomsHandler {
	return &RoomsHandler{service: roomService}
}

// List GET /rooms. With ?accessible=true only rooms the caller's role may
// book are returned; ?category narrows by room category.
func (h *RoomsHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var rooms []domain.Room
	var err error
	if c.QueryBool("accessible", false) {
		rooms, err = h.service.ListAccessible(c.Context(), actor.Role)
	} else {
		rooms, err = h.service.ListAll(c.Context())
	}
	if err != nil {
		return err
	}

	if raw := c.Query("category"); raw != "" {
		category, err := domain.ParseRoomCategory(strings.ToUpper(raw))
		if err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
		filtered := rooms[:0]
		for _, room := range rooms {
			if room.Category == category {
				filtered = append(filtered, room)
			}
		}
		rooms = filtered
	}

	items := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		items = append(items, dto.NewRoomResponse(&rooms[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /rooms/:id.
func (h *RoomsHandler) Get(c *fiber.Ctx) error {
	room, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoomResponse(room)})
}

// Create POST /rooms.
func (h *RoomsHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	input, err := parseRoomRequest(c)
	if err != nil {
		return err
	}
	room, err := h.service.Create(c.Context(), actor, *input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRoomResponse(room)})
}

// Update PUT /rooms/:id.
func (h *RoomsHandler) Update(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	input, err := parseRoomRequest(c)
	if err != nil {
		return err
	}
	room, err := h.service.Update(c.Context(), actor, c.Params("id"), *input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoomResponse(room)})
}

// Delete DELETE /rooms/:id.
func (h *RoomsHandler) Delete(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func parseRoomRequest(c *fiber.Ctx) (*service.RoomInput, error) {
	var req dto.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Capacity == 0 || req.Category == "" || req.AccessLevel == "" {
		return nil, apperrors.NewValidationError("name, capacity, category, access_level required", nil)
	}

	category, err := domain.ParseRoomCategory(req.Category)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	level, err := domain.ParseAccessLevel(req.AccessLevel)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	return &service.RoomInput{
		Name:        req.Name,
		Capacity:    req.Capacity,
		Category:    category,
		AccessLevel: level,
	}, nil
}
