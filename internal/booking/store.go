package booking

import (
	"context"
	"time"
)

// Store is the transactional backend of the booking engine. Implementations
// must apply Reserve all-or-nothing and serialize the capacity check against
// the occupancy increment for the same (slot, date).
type Store interface {
	Reserve(ctx context.Context, res Reservation) (*Booking, error)
	CountBooked(ctx context.Context, slotID int, date time.Time) (int, error)
	GetCustomerBookings(ctx context.Context, customerID int) ([]Booking, error)
	GetBookingsBySlotDate(ctx context.Context, slotID int, date time.Time) ([]BookingWithDetails, error)
	GetBookingsByGym(ctx context.Context, gymID int) ([]BookingWithDetails, error)
}
