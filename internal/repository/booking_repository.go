package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/booking-service/internal/domain"
)

// ErrBookingConflict is returned when an insert loses the overlap re-check
// inside the booking transaction.
var ErrBookingConflict = errors.New("booking interval conflict")

// BookingFilter captures booking search parameters.
type BookingFilter struct {
	RoomID    *string
	CreatorID *string
	Statuses  []domain.BookingStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}

// BookingRepository encapsulates booking persistence.
type BookingRepository interface {
	// Create inserts the booking and its participants in one transaction.
	// The insert re-checks interval overlap against non-cancelled bookings
	// for the same room and date; a racing loser gets ErrBookingConflict.
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListForRoomDate(ctx context.Context, roomID string, date time.Time, statuses []domain.BookingStatus) ([]domain.Booking, error)
	ListWithFilter(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, reason *string) error
	Delete(ctx context.Context, id string) error
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository instantiates repository.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Guarded insert: the WHERE NOT EXISTS re-check runs atomically with the
	// insert, so two racing admissions cannot both pass a stale snapshot.
	// The exclusion constraint in the schema backstops this.
	const query = `
        INSERT INTO bookings (code, name, room_id, creator_id, booking_date, start_minute, end_minute, status)
        SELECT $1, $2, $3, $4, $5, $6, $7, $8
        WHERE NOT EXISTS (
            SELECT 1 FROM bookings
            WHERE room_id = $3
              AND booking_date = $5
              AND status IN ('PENDING', 'ACTIVE')
              AND start_minute < $7
              AND $6 < end_minute
        )
        RETURNING id, created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		booking.Code,
		booking.Name,
		booking.RoomID,
		booking.CreatorID,
		booking.Date,
		booking.StartMinute,
		booking.EndMinute,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBookingConflict
		}
		return err
	}

	for _, participantID := range booking.ParticipantIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO booking_participants (booking_id, user_id) VALUES ($1, $2)`,
			booking.ID, participantID,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	const query = `
        SELECT id, code, name, room_id, creator_id, booking_date, start_minute, end_minute,
               status, cancellation_reason, created_at, updated_at
        FROM bookings WHERE id=$1`

	var booking domain.Booking
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.Code,
		&booking.Name,
		&booking.RoomID,
		&booking.CreatorID,
		&booking.Date,
		&booking.StartMinute,
		&booking.EndMinute,
		&booking.Status,
		&booking.CancellationReason,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	); err != nil {
		return nil, err
	}

	participants, err := r.participantIDs(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	booking.ParticipantIDs = participants
	return &booking, nil
}

func (r *bookingRepository) participantIDs(ctx context.Context, bookingID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM booking_participants WHERE booking_id=$1`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *bookingRepository) ListForRoomDate(ctx context.Context, roomID string, date time.Time, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	filter := BookingFilter{
		RoomID:   &roomID,
		Statuses: statuses,
		DateFrom: &date,
		DateTo:   &date,
		Limit:    500,
	}
	return r.ListWithFilter(ctx, filter)
}

func (r *bookingRepository) ListWithFilter(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	base := `SELECT id, code, name, room_id, creator_id, booking_date, start_minute, end_minute,
                    status, cancellation_reason, created_at, updated_at
             FROM bookings`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RoomID != nil {
		args = append(args, *filter.RoomID)
		clauses = append(clauses, fmt.Sprintf("room_id=$%d", len(args)))
	}
	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		clauses = append(clauses, fmt.Sprintf("creator_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		clauses = append(clauses, fmt.Sprintf("booking_date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		clauses = append(clauses, fmt.Sprintf("booking_date <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY booking_date ASC, start_minute ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, reason *string) error {
	const query = `
        UPDATE bookings SET status=$1, cancellation_reason=COALESCE($2, cancellation_reason), updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, status, reason, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanBookings(rows pgx.Rows) ([]domain.Booking, error) {
	var result []domain.Booking
	for rows.Next() {
		var booking domain.Booking
		if err := rows.Scan(
			&booking.ID,
			&booking.Code,
			&booking.Name,
			&booking.RoomID,
			&booking.CreatorID,
			&booking.Date,
			&booking.StartMinute,
			&booking.EndMinute,
			&booking.Status,
			&booking.CancellationReason,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, booking)
	}
	return result, rows.Err()
}
