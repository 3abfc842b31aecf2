package policy

import "github.com/spec-kit/booking-service/internal/domain"

// HasRoomAccess reports whether a role may see and book a room with the
// given access level. Access is monotonic in rank: a higher role can book
// everything a lower one can.
func HasRoomAccess(role domain.Role, level domain.AccessLevel) bool {
	return role.Rank() >= level.Rank()
}
