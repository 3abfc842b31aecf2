package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/policy"
	"github.com/spec-kit/booking-service/internal/repository"
)

// memBookingRepo is an in-memory BookingRepository. Create holds the lock
// across the overlap re-check and the insert, mirroring the transactional
// guarantee of the Postgres implementation.
type memBookingRepo struct {
	mu       sync.Mutex
	seq      int
	bookings map[string]*domain.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*domain.Booking)}
}

func (r *memBookingRepo) Create(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	candidate := policy.Interval{StartMinute: booking.StartMinute, EndMinute: booking.EndMinute}
	for _, held := range r.bookings {
		if held.RoomID != booking.RoomID || !sameDay(held.Date, booking.Date) {
			continue
		}
		if held.Status == domain.BookingStatusCancelled {
			continue
		}
		if policy.Overlaps(candidate, policy.Interval{StartMinute: held.StartMinute, EndMinute: held.EndMinute}) {
			return repository.ErrBookingConflict
		}
	}

	r.seq++
	booking.ID = fmt.Sprintf("booking-%d", r.seq)
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	stored := *booking
	r.bookings[booking.ID] = &stored
	return nil
}

func (r *memBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *memBookingRepo) ListForRoomDate(_ context.Context, roomID string, date time.Time, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Booking
	for _, stored := range r.bookings {
		if stored.RoomID != roomID || !sameDay(stored.Date, date) {
			continue
		}
		if len(statuses) > 0 && !statusIn(stored.Status, statuses) {
			continue
		}
		result = append(result, *stored)
	}
	return result, nil
}

func (r *memBookingRepo) ListWithFilter(_ context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Booking
	for _, stored := range r.bookings {
		if filter.RoomID != nil && stored.RoomID != *filter.RoomID {
			continue
		}
		if filter.CreatorID != nil && stored.CreatorID != *filter.CreatorID {
			continue
		}
		if len(filter.Statuses) > 0 && !statusIn(stored.Status, filter.Statuses) {
			continue
		}
		if filter.DateFrom != nil && stored.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && stored.Date.After(*filter.DateTo) {
			continue
		}
		result = append(result, *stored)
	}
	return result, nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, id string, status domain.BookingStatus, reason *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = status
	if reason != nil {
		stored.CancellationReason = reason
	}
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *memBookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.bookings, id)
	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func statusIn(status domain.BookingStatus, statuses []domain.BookingStatus) bool {
	for _, candidate := range statuses {
		if status == candidate {
			return true
		}
	}
	return false
}

type memRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]*domain.Room
}

func newMemRoomRepo() *memRoomRepo {
	return &memRoomRepo{rooms: make(map[string]*domain.Room)}
}

func (r *memRoomRepo) Create(_ context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room.ID == "" {
		room.ID = fmt.Sprintf("room-%d", len(r.rooms)+1)
	}
	stored := *room
	r.rooms[room.ID] = &stored
	return nil
}

func (r *memRoomRepo) Update(_ context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[room.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *room
	r.rooms[room.ID] = &stored
	return nil
}

func (r *memRoomRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.rooms, id)
	return nil
}

func (r *memRoomRepo) GetByID(_ context.Context, id string) (*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rooms[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *memRoomRepo) List(_ context.Context) ([]domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Room
	for _, stored := range r.rooms {
		result = append(result, *stored)
	}
	return result, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.users {
		if stored.Email == email {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, stored := range r.users {
		result = append(result, *stored)
	}
	return result, nil
}
