// Package policy holds the pure booking-admission rules: per-role limits,
// room access evaluation, schedule validation and interval conflict
// detection. Nothing here touches storage or the clock.
package policy

import (
	"fmt"

	"github.com/spec-kit/booking-service/internal/domain"
)

// Limits are the per-role booking constraints. A nil pointer means the role
// has no cap for that dimension.
type Limits struct {
	MaxAdvanceDays   *int
	MaxDurationHours *int
	RequiresApproval bool
}

var roleLimits = map[domain.Role]Limits{
	domain.RoleFuncionario: {MaxAdvanceDays: intPtr(7), MaxDurationHours: intPtr(1), RequiresApproval: true},
	domain.RoleCoordenador: {MaxAdvanceDays: intPtr(30), MaxDurationHours: intPtr(2), RequiresApproval: true},
	domain.RoleGerente:     {RequiresApproval: false},
	domain.RoleDiretor:     {RequiresApproval: false},
}

// LimitsFor returns the booking limits for a role. An undefined role is a
// configuration defect, not user input, and panics.
func LimitsFor(role domain.Role) Limits {
	limits, ok := roleLimits[role]
	if !ok {
		panic(fmt.Sprintf("no booking limits defined for role %q", role))
	}
	return limits
}

// MaxAdvanceDays returns how many days ahead the role may book, nil for
// unlimited.
func MaxAdvanceDays(role domain.Role) *int {
	return LimitsFor(role).MaxAdvanceDays
}

// MaxDurationHours returns the longest booking the role may create, nil for
// unlimited.
func MaxDurationHours(role domain.Role) *int {
	return LimitsFor(role).MaxDurationHours
}

// RequiresApproval reports whether bookings created by the role start out
// pending manager approval.
func RequiresApproval(role domain.Role) bool {
	return LimitsFor(role).RequiresApproval
}

func intPtr(v int) *int {
	return &v
}
