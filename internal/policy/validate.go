package policy

import (
	"fmt"
	"math"
	"time"

	"github.com/spec-kit/booking-service/internal/domain"
)

// ViolationError describes exactly which booking limit a request exceeded.
// Callers surface the reason verbatim to the end user.
type ViolationError struct {
	Reason string
}

func (e *ViolationError) Error() string {
	return e.Reason
}

func violationf(format string, args ...any) error {
	return &ViolationError{Reason: fmt.Sprintf(format, args...)}
}

// ValidateSchedule checks a candidate booking window against the role's
// advance and duration limits. now supplies today; date is the booking day;
// the interval is [startMinute, endMinute) in minutes since midnight.
func ValidateSchedule(role domain.Role, now, date time.Time, startMinute, endMinute int) error {
	if err := validateAdvance(role, now, date); err != nil {
		return err
	}
	return validateDuration(role, startMinute, endMinute)
}

func validateAdvance(role domain.Role, now, date time.Time) error {
	daysAhead := daysBetweenMidnights(now, date)
	if daysAhead < 0 {
		return violationf("booking date is in the past")
	}
	if limit := MaxAdvanceDays(role); limit != nil && daysAhead > *limit {
		return violationf("exceeds %d-day advance limit for your role", *limit)
	}
	return nil
}

func validateDuration(role domain.Role, startMinute, endMinute int) error {
	durationMinutes := endMinute - startMinute
	if durationMinutes <= 0 {
		return violationf("end time must be after start time")
	}
	if limit := MaxDurationHours(role); limit != nil {
		durationHours := float64(durationMinutes) / 60
		if durationHours > float64(*limit) {
			return violationf("exceeds %d-hour duration limit for your role", *limit)
		}
	}
	return nil
}

// daysBetweenMidnights counts calendar days from now's midnight to date's
// midnight, rounding partial days up.
func daysBetweenMidnights(now, date time.Time) int {
	today := midnight(now)
	target := midnight(date)
	return int(math.Ceil(target.Sub(today).Hours() / 24))
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
