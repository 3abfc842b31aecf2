package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/booking-service/internal/domain"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

var bookingNow = time.Date(2024, time.June, 3, 9, 0, 0, 0, time.Local)

type bookingFixture struct {
	service  *BookingService
	bookings *memBookingRepo
	rooms    *memRoomRepo
	users    *memUserRepo

	funcionario *domain.User
	coordenador *domain.User
	gerente     *domain.User
	diretor     *domain.User
	admin       *domain.User

	openRoom *domain.Room
	execRoom *domain.Room
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	ctx := context.Background()

	f := &bookingFixture{
		bookings: newMemBookingRepo(),
		rooms:    newMemRoomRepo(),
		users:    newMemUserRepo(),
	}
	f.service = NewBookingService(BookingDependencies{
		BookingRepo: f.bookings,
		RoomRepo:    f.rooms,
		UserRepo:    f.users,
		Now:         func() time.Time { return bookingNow },
	})

	seedUser := func(name string, role domain.Role, kind domain.AccountKind) *domain.User {
		user := &domain.User{Name: name, Email: name + "@example.com", Role: role, AccountKind: kind}
		require.NoError(t, f.users.Create(ctx, user))
		return user
	}
	f.funcionario = seedUser("ana", domain.RoleFuncionario, domain.AccountKindStandard)
	f.coordenador = seedUser("bruno", domain.RoleCoordenador, domain.AccountKindStandard)
	f.gerente = seedUser("carla", domain.RoleGerente, domain.AccountKindStandard)
	f.diretor = seedUser("davi", domain.RoleDiretor, domain.AccountKindStandard)
	f.admin = seedUser("root", domain.RoleFuncionario, domain.AccountKindAdmin)

	f.openRoom = &domain.Room{Name: "Aquario", Capacity: 8, Category: domain.RoomCategoryMeeting, AccessLevel: domain.AccessLevelFuncionario, CreatorID: f.admin.ID}
	require.NoError(t, f.rooms.Create(ctx, f.openRoom))
	f.execRoom = &domain.Room{Name: "Conselho", Capacity: 12, Category: domain.RoomCategoryVideoconference, AccessLevel: domain.AccessLevelDiretor, CreatorID: f.admin.ID}
	require.NoError(t, f.rooms.Create(ctx, f.execRoom))

	return f
}

func (f *bookingFixture) admitInput(roomID string, daysAhead, startMinute, endMinute int) AdmitInput {
	return AdmitInput{
		RoomID:      roomID,
		Name:        "Weekly sync",
		Date:        bookingNow.AddDate(0, 0, daysAhead),
		StartMinute: startMinute,
		EndMinute:   endMinute,
	}
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return apperrors.ToDomainError(err).Code
}

func TestBookingAdmission(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Should activate immediately for Gerente", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		booking, pending, err := f.service.Admit(ctx, f.gerente, f.admitInput(f.openRoom.ID, 7, 840, 900))
		require.NoError(t, err)
		assert.False(t, pending)
		assert.Equal(t, domain.BookingStatusActive, booking.Status)
		assert.NotEmpty(t, booking.Code)
	})
	t.Run("Should go pending for Funcionario under identical conditions", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		booking, pending, err := f.service.Admit(ctx, f.funcionario, f.admitInput(f.openRoom.ID, 7, 840, 900))
		require.NoError(t, err)
		assert.True(t, pending)
		assert.Equal(t, domain.BookingStatusPending, booking.Status)
	})
	t.Run("Should reject Funcionario booking 10 days out", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		_, _, err := f.service.Admit(ctx, f.funcionario, f.admitInput(f.openRoom.ID, 10, 840, 900))
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
		assert.Contains(t, err.Error(), "7-day advance limit")
	})
	t.Run("Should reject 3-hour meeting for Funcionario", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		_, _, err := f.service.Admit(ctx, f.funcionario, f.admitInput(f.openRoom.ID, 2, 540, 720))
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
		assert.Contains(t, err.Error(), "1-hour duration limit")
	})
	t.Run("Should return NotFound for unknown room", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		_, _, err := f.service.Admit(ctx, f.gerente, f.admitInput("missing", 1, 540, 600))
		assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	})
	t.Run("Should forbid Funcionario booking a Diretor room", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		_, _, err := f.service.Admit(ctx, f.funcionario, f.admitInput(f.execRoom.ID, 1, 540, 600))
		assert.Equal(t, "FORBIDDEN", errorCode(t, err))
	})
	t.Run("Should reject overlapping interval with Conflict", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		_, _, err := f.service.Admit(ctx, f.gerente, f.admitInput(f.openRoom.ID, 3, 600, 660))
		require.NoError(t, err)
		_, _, err = f.service.Admit(ctx, f.diretor, f.admitInput(f.openRoom.ID, 3, 630, 690))
		assert.Equal(t, "CONFLICT", errorCode(t, err))
	})
	t.Run("Should allow back-to-back bookings", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		_, _, err := f.service.Admit(ctx, f.gerente, f.admitInput(f.openRoom.ID, 3, 600, 660))
		require.NoError(t, err)
		_, _, err = f.service.Admit(ctx, f.diretor, f.admitInput(f.openRoom.ID, 3, 660, 720))
		assert.NoError(t, err)
	})
	t.Run("Should still conflict with a pending booking", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		_, _, err := f.service.Admit(ctx, f.funcionario, f.admitInput(f.openRoom.ID, 3, 600, 660))
		require.NoError(t, err)
		_, _, err = f.service.Admit(ctx, f.gerente, f.admitInput(f.openRoom.ID, 3, 600, 660))
		assert.Equal(t, "CONFLICT", errorCode(t, err))
	})
	t.Run("Should admit exactly one of two racing requests", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		actors := []*domain.User{f.gerente, f.diretor}
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _, errs[i] = f.service.Admit(ctx, actors[i], f.admitInput(f.openRoom.ID, 4, 540, 600))
			}(i)
		}
		wg.Wait()

		var successes, conflicts int
		for _, err := range errs {
			if err == nil {
				successes++
			} else if apperrors.ToDomainError(err).Code == "CONFLICT" {
				conflicts++
			}
		}
		assert.Equal(t, 1, successes)
		assert.Equal(t, 1, conflicts)
	})
}

func TestBookingTransition(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	seedPending := func(t *testing.T, f *bookingFixture) *domain.Booking {
		t.Helper()
		booking, pending, err := f.service.Admit(ctx, f.funcionario, f.admitInput(f.openRoom.ID, 2, 540, 600))
		require.NoError(t, err)
		require.True(t, pending)
		return booking
	}

	t.Run("Should let Gerente approve a pending booking", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		booking := seedPending(t, f)
		approved, err := f.service.Transition(ctx, f.gerente, booking.ID, TransitionApprove, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusActive, approved.Status)
	})
	t.Run("Should forbid Funcionario approving", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		booking := seedPending(t, f)
		_, err := f.service.Transition(ctx, f.funcionario, booking.ID, TransitionApprove, nil)
		assert.Equal(t, "FORBIDDEN", errorCode(t, err))
	})
	t.Run("Should record the reason on rejection", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		booking := seedPending(t, f)
		reason := "room reserved for maintenance"
		rejected, err := f.service.Transition(ctx, f.diretor, booking.ID, TransitionReject, &reason)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, rejected.Status)
		require.NotNil(t, rejected.CancellationReason)
		assert.Equal(t, reason, *rejected.CancellationReason)
	})
	t.Run("Should refuse transitions on non-pending bookings", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		booking := seedPending(t, f)
		_, err := f.service.Transition(ctx, f.gerente, booking.ID, TransitionApprove, nil)
		require.NoError(t, err)
		_, err = f.service.Transition(ctx, f.gerente, booking.ID, TransitionApprove, nil)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
	})
	t.Run("Should return NotFound for unknown booking", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		_, err := f.service.Transition(ctx, f.gerente, "missing", TransitionApprove, nil)
		assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	})
}

func TestBookingCancelAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	seedActive := func(t *testing.T, f *bookingFixture) *domain.Booking {
		t.Helper()
		booking, _, err := f.service.Admit(ctx, f.gerente, f.admitInput(f.openRoom.ID, 2, 540, 600))
		require.NoError(t, err)
		return booking
	}

	t.Run("Should let the creator cancel", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		booking := seedActive(t, f)
		cancelled, err := f.service.Cancel(ctx, f.gerente, booking.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
	})
	t.Run("Should forbid cancelling someone else's booking", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		booking := seedActive(t, f)
		_, err := f.service.Cancel(ctx, f.coordenador, booking.ID, nil)
		assert.Equal(t, "FORBIDDEN", errorCode(t, err))
	})
	t.Run("Should let an admin cancel any booking", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		booking := seedActive(t, f)
		_, err := f.service.Cancel(ctx, f.admin, booking.ID, nil)
		assert.NoError(t, err)
	})
	t.Run("Should refuse cancelling twice", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		booking := seedActive(t, f)
		_, err := f.service.Cancel(ctx, f.gerente, booking.ID, nil)
		require.NoError(t, err)
		_, err = f.service.Cancel(ctx, f.gerente, booking.ID, nil)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
	})
	t.Run("Should free the slot after cancellation", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		booking := seedActive(t, f)
		_, err := f.service.Cancel(ctx, f.gerente, booking.ID, nil)
		require.NoError(t, err)
		_, _, err = f.service.Admit(ctx, f.diretor, f.admitInput(f.openRoom.ID, 2, 540, 600))
		assert.NoError(t, err)
	})
	t.Run("Should let the creator delete", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		booking := seedActive(t, f)
		require.NoError(t, f.service.Delete(ctx, f.gerente, booking.ID))
		_, err := f.service.Get(ctx, booking.ID)
		assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	})
	t.Run("Should forbid deleting someone else's booking", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		booking := seedActive(t, f)
		err := f.service.Delete(ctx, f.funcionario, booking.ID)
		assert.Equal(t, "FORBIDDEN", errorCode(t, err))
	})
	t.Run("Should let an admin delete any booking", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		booking := seedActive(t, f)
		assert.NoError(t, f.service.Delete(ctx, f.admin, booking.ID))
	})
}

func TestPendingApprovals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Should list pending bookings for manager tier", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		_, _, err := f.service.Admit(ctx, f.funcionario, f.admitInput(f.openRoom.ID, 2, 540, 600))
		require.NoError(t, err)
		_, _, err = f.service.Admit(ctx, f.gerente, f.admitInput(f.openRoom.ID, 2, 660, 720))
		require.NoError(t, err)

		pending, err := f.service.ListPendingApprovals(ctx, f.gerente)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, domain.BookingStatusPending, pending[0].Status)
	})
	t.Run("Should forbid the approval queue below manager tier", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		_, err := f.service.ListPendingApprovals(ctx, f.coordenador)
		assert.Equal(t, "FORBIDDEN", errorCode(t, err))
	})
}

func TestBookingGetExpandsRelations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newBookingFixture(t)
	input := f.admitInput(f.openRoom.ID, 2, 540, 600)
	input.ParticipantIDs = []string{f.coordenador.ID, f.diretor.ID}
	booking, _, err := f.service.Admit(ctx, f.gerente, input)
	require.NoError(t, err)

	detail, err := f.service.Get(ctx, booking.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Creator)
	assert.Equal(t, f.gerente.ID, detail.Creator.ID)
	require.NotNil(t, detail.Room)
	assert.Equal(t, f.openRoom.ID, detail.Room.ID)
	assert.Len(t, detail.Participants, 2)
}
