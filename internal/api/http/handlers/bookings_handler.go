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

// BookingsHandler exposes booking endpoints.
type BookingsHandler struct {
	service *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookingService *service.BookingService) *BookingsHandler {
	return &BookingsHandler{service: bookingService}
}

// Create POST /bookings.
func (h *BookingsHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" || req.RoomID == "" || req.Date == "" || req.StartTime == "" || req.EndTime == "" {
		return apperrors.NewValidationError("name, room_id, date, start_time, end_time required", nil)
	}

	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	startMinute, err := dto.ParseClock(req.StartTime)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	endMinute, err := dto.ParseClock(req.EndTime)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	booking, pendingApproval, err := h.service.Admit(c.Context(), actor, service.AdmitInput{
		RoomID:         req.RoomID,
		Name:           req.Name,
		Date:           date,
		StartMinute:    startMinute,
		EndMinute:      endMinute,
		ParticipantIDs: req.ParticipantIDs,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"booking":          dto.NewBookingSummary(booking),
			"pending_approval": pendingApproval,
		},
	})
}

// List GET /bookings.
func (h *BookingsHandler) List(c *fiber.Ctx) error {
	filter := service.BookingListFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseBookingStatus(strings.ToUpper(raw))
		if err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
		filter.Status = &status
	}
	if raw := c.Query("room_id"); raw != "" {
		filter.RoomID = &raw
	}
	if raw := c.Query("date_from"); raw != "" {
		from, err := dto.ParseDate(raw)
		if err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
		filter.DateFrom = &from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, err := dto.ParseDate(raw)
		if err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
		filter.DateTo = &to
	}

	bookings, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.BookingSummary, 0, len(bookings))
	for i := range bookings {
		items = append(items, dto.NewBookingSummary(&bookings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /bookings/:id.
func (h *BookingsHandler) Get(c *fiber.Ctx) error {
	booking, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookingDetail(booking)})
}

// Transition PATCH /bookings/:id — manager approve/reject.
func (h *BookingsHandler) Transition(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.TransitionBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	action, err := service.ParseTransitionAction(strings.ToLower(req.Action))
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	booking, err := h.service.Transition(c.Context(), actor, c.Params("id"), action, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookingSummary(booking)})
}

// Cancel POST /bookings/:id/cancel.
func (h *BookingsHandler) Cancel(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CancelBookingRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	booking, err := h.service.Cancel(c.Context(), actor, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookingSummary(booking)})
}

// Delete DELETE /bookings/:id.
func (h *BookingsHandler) Delete(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// PendingApprovals GET /approvals.
func (h *BookingsHandler) PendingApprovals(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	bookings, err := h.service.ListPendingApprovals(c.Context(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.BookingSummary, 0, len(bookings))
	for i := range bookings {
		items = append(items, dto.NewBookingSummary(&bookings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
