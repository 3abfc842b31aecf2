package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/events"
	"github.com/spec-kit/booking-service/internal/policy"
	"github.com/spec-kit/booking-service/internal/repository"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// TransitionAction is a manager decision on a pending booking.
type TransitionAction string

const (
	TransitionApprove TransitionAction = "approve"
	TransitionReject  TransitionAction = "reject"
)

// ParseTransitionAction validates a raw action string.
func ParseTransitionAction(raw string) (TransitionAction, error) {
	action := TransitionAction(raw)
	switch action {
	case TransitionApprove, TransitionReject:
		return action, nil
	}
	return "", errors.New("action must be approve or reject")
}

// BookingService coordinates booking admission and lifecycle transitions.
type BookingService struct {
	bookings   repository.BookingRepository
	rooms      repository.RoomRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// BookingDependencies bundles repositories for the booking service.
type BookingDependencies struct {
	BookingRepo repository.BookingRepository
	RoomRepo    repository.RoomRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
	Now         func() time.Time
}

// NewBookingService constructs the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings:   deps.BookingRepo,
		rooms:      deps.RoomRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// AdmitInput describes a booking request.
type AdmitInput struct {
	RoomID         string
	Name           string
	Date           time.Time
	StartMinute    int
	EndMinute      int
	ParticipantIDs []string
}

// BookingListFilter describes listing filters.
type BookingListFilter struct {
	Status   *domain.BookingStatus
	RoomID   *string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// Admit runs the full admission flow for a new booking: room resolution,
// access check, policy validation, conflict detection and the guarded
// persist. The returned flag reports whether the booking awaits approval.
func (s *BookingService) Admit(ctx context.Context, actor *domain.User, input AdmitInput) (*domain.Booking, bool, error) {
	room, err := s.rooms.GetByID(ctx, input.RoomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, apperrors.NewNotFound("room", map[string]any{"room_id": input.RoomID})
		}
		return nil, false, err
	}

	if !policy.HasRoomAccess(actor.Role, room.AccessLevel) {
		return nil, false, apperrors.NewForbidden("role does not grant access to this room")
	}

	if err := policy.ValidateSchedule(actor.Role, s.now(), input.Date, input.StartMinute, input.EndMinute); err != nil {
		var violation *policy.ViolationError
		if errors.As(err, &violation) {
			return nil, false, apperrors.NewValidationError(violation.Reason, nil)
		}
		return nil, false, err
	}

	// Fast-fail conflict check; the insert below re-checks atomically.
	held, err := s.bookings.ListForRoomDate(ctx, room.ID, input.Date,
		[]domain.BookingStatus{domain.BookingStatusPending, domain.BookingStatusActive})
	if err != nil {
		return nil, false, err
	}
	candidate := policy.Interval{StartMinute: input.StartMinute, EndMinute: input.EndMinute}
	if clash := policy.FirstConflict(candidate, held); clash != nil {
		return nil, false, apperrors.NewConflict("room is already booked for this time",
			map[string]any{"conflicting_code": clash.Code})
	}

	status := domain.BookingStatusActive
	pendingApproval := policy.RequiresApproval(actor.Role)
	if pendingApproval {
		status = domain.BookingStatusPending
	}

	booking := &domain.Booking{
		Code:           s.generateBookingCode(),
		Name:           strings.TrimSpace(input.Name),
		RoomID:         room.ID,
		CreatorID:      actor.ID,
		Date:           input.Date,
		StartMinute:    input.StartMinute,
		EndMinute:      input.EndMinute,
		Status:         status,
		ParticipantIDs: input.ParticipantIDs,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrBookingConflict) {
			return nil, false, apperrors.NewConflict("room is already booked for this time", nil)
		}
		return nil, false, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventBookingCreated,
		BookingID: booking.ID,
		Actor:     actorOf(actor),
		Payload: events.BookingCreatedPayload{
			RoomID:          booking.RoomID,
			Code:            booking.Code,
			Date:            booking.Date.Format("2006-01-02"),
			StartMinute:     booking.StartMinute,
			EndMinute:       booking.EndMinute,
			Status:          booking.Status,
			PendingApproval: pendingApproval,
		},
	})
	return booking, pendingApproval, nil
}

// Transition applies a manager decision: approve moves PENDING to ACTIVE,
// reject moves PENDING to CANCELLED with an optional reason.
func (s *BookingService) Transition(ctx context.Context, actor *domain.User, bookingID string, action TransitionAction, reason *string) (*domain.Booking, error) {
	if !actor.Role.ManagerTier() {
		return nil, apperrors.NewForbidden("approval requires Gerente or Diretor role")
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusPending {
		return nil, apperrors.NewValidationError("only pending bookings can be approved or rejected",
			map[string]any{"status": booking.Status})
	}

	oldStatus := booking.Status
	newStatus := domain.BookingStatusActive
	if action == TransitionReject {
		newStatus = domain.BookingStatusCancelled
	} else {
		reason = nil
	}

	if err := s.bookings.UpdateStatus(ctx, booking.ID, newStatus, reason); err != nil {
		return nil, apperrors.MapError(err)
	}
	booking.Status = newStatus
	if reason != nil {
		booking.CancellationReason = reason
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventBookingStatusChanged,
		BookingID: booking.ID,
		Actor:     actorOf(actor),
		Payload: events.BookingStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Reason:    reason,
		},
	})
	return booking, nil
}

// Cancel moves a pending or active booking to CANCELLED. Only the creator or
// an admin may cancel.
func (s *BookingService) Cancel(ctx context.Context, actor *domain.User, bookingID string, reason *string) (*domain.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CreatorID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("only the creator or an admin may cancel a booking")
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, apperrors.NewValidationError("booking is already cancelled", nil)
	}

	oldStatus := booking.Status
	if err := s.bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusCancelled, reason); err != nil {
		return nil, apperrors.MapError(err)
	}
	booking.Status = domain.BookingStatusCancelled
	booking.CancellationReason = reason

	s.publishEvent(ctx, events.Event{
		Type:      events.EventBookingStatusChanged,
		BookingID: booking.ID,
		Actor:     actorOf(actor),
		Payload: events.BookingStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: domain.BookingStatusCancelled,
			Reason:    reason,
		},
	})
	return booking, nil
}

// Delete removes a booking entirely. Only the creator or an admin may delete.
func (s *BookingService) Delete(ctx context.Context, actor *domain.User, bookingID string) error {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.CreatorID != actor.ID && !actor.IsAdmin() {
		return apperrors.NewForbidden("only the creator or an admin may delete a booking")
	}

	if err := s.bookings.Delete(ctx, booking.ID); err != nil {
		return apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventBookingDeleted,
		BookingID: booking.ID,
		Actor:     actorOf(actor),
		Payload: events.BookingDeletedPayload{
			RoomID: booking.RoomID,
			Code:   booking.Code,
		},
	})
	return nil
}

// List returns bookings matching the filter.
func (s *BookingService) List(ctx context.Context, filter BookingListFilter) ([]domain.Booking, error) {
	repoFilter := repository.BookingFilter{
		RoomID:   filter.RoomID,
		DateFrom: filter.DateFrom,
		DateTo:   filter.DateTo,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}
	if filter.Status != nil {
		repoFilter.Statuses = []domain.BookingStatus{*filter.Status}
	}
	return s.bookings.ListWithFilter(ctx, repoFilter)
}

// ListPendingApprovals returns pending bookings for the approval queue.
// Restricted to manager tier.
func (s *BookingService) ListPendingApprovals(ctx context.Context, actor *domain.User) ([]domain.Booking, error) {
	if !actor.Role.ManagerTier() {
		return nil, apperrors.NewForbidden("approval queue requires Gerente or Diretor role")
	}
	return s.bookings.ListWithFilter(ctx, repository.BookingFilter{
		Statuses: []domain.BookingStatus{domain.BookingStatusPending},
		Limit:    200,
	})
}

// Get returns one booking with its creator, room and participants expanded.
func (s *BookingService) Get(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.expandRelations(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) getBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("booking", map[string]any{"booking_id": bookingID})
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) expandRelations(ctx context.Context, booking *domain.Booking) error {
	creator, err := s.users.GetByID(ctx, booking.CreatorID)
	if err == nil {
		booking.Creator = creator
	}
	room, err := s.rooms.GetByID(ctx, booking.RoomID)
	if err == nil {
		booking.Room = room
	}
	for _, participantID := range booking.ParticipantIDs {
		participant, err := s.users.GetByID(ctx, participantID)
		if err != nil {
			continue
		}
		booking.Participants = append(booking.Participants, *participant)
	}
	return nil
}

// generateBookingCode builds a unique human-readable code. Uniqueness is
// additionally enforced by the database.
func (s *BookingService) generateBookingCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "BKG-" + s.now().UTC().Format("20060102150405") + "-" + suffix
}

func (s *BookingService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorOf(user *domain.User) events.Actor {
	return events.Actor{UserID: user.ID, Role: user.Role}
}
