package policy

import "github.com/spec-kit/booking-service/internal/domain"

// Interval is a half-open time range [StartMinute, EndMinute) within one day.
type Interval struct {
	StartMinute int
	EndMinute   int
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints do not overlap: a booking ending at 10:00 coexists with one
// starting at 10:00. The single inequality covers every overlap shape,
// containment included.
func Overlaps(a, b Interval) bool {
	return a.StartMinute < b.EndMinute && b.StartMinute < a.EndMinute
}

// FirstConflict returns the first existing booking whose interval overlaps
// the candidate, or nil. Cancelled bookings never conflict.
func FirstConflict(candidate Interval, existing []domain.Booking) *domain.Booking {
	for i := range existing {
		if existing[i].Status == domain.BookingStatusCancelled {
			continue
		}
		held := Interval{StartMinute: existing[i].StartMinute, EndMinute: existing[i].EndMinute}
		if Overlaps(candidate, held) {
			return &existing[i]
		}
	}
	return nil
}
