package booking

import (
	"context"
	"errors"
	"time"

	"flipfit/internal/apperr"
	"flipfit/internal/gym"
	"flipfit/internal/logger"
	"flipfit/internal/metrics"
)

type Service interface {
	Reserve(ctx context.Context, customerID, gymID, slotID int, date time.Time) (*Booking, error)
	GetCustomerBookings(ctx context.Context, customerID int) ([]Booking, error)
	GetBookingsBySlotDate(ctx context.Context, slotID int, date time.Time) ([]BookingWithDetails, error)
	GetBookingsByGym(ctx context.Context, gymID int) ([]BookingWithDetails, error)
}

// Notifier is notified after a reservation committed. Failures there must not
// affect the reservation itself.
type Notifier interface {
	BookingConfirmed(ctx context.Context, customerID int, gymName string, startsAt time.Time)
}

type service struct {
	store    Store
	gymRepo  gym.Repository
	notifier Notifier
	now      func() time.Time
}

func NewService(store Store, gymRepo gym.Repository, notifier Notifier) Service {
	return &service{
		store:    store,
		gymRepo:  gymRepo,
		notifier: notifier,
		now:      time.Now,
	}
}

// Reserve books one slot for one date. Preconditions are checked in a fixed
// order, each with its own failure; balance and capacity are checked again by
// the store under row locks, so races between callers cannot overshoot
// capacity or overdraw the wallet.
func (s *service) Reserve(ctx context.Context, customerID, gymID, slotID int, date time.Time) (*Booking, error) {
	g, err := s.gymRepo.GetGymByID(ctx, gymID)
	if err != nil || !g.Approved {
		metrics.RecordReservation("missing_entity")
		return nil, apperr.Missing("gym", gymID)
	}

	slot, err := s.gymRepo.GetSlotByID(ctx, slotID)
	if err != nil || slot.GymID != gymID {
		metrics.RecordReservation("missing_entity")
		return nil, apperr.Missing("slot", slotID)
	}

	if slot.StartsAt(date).Before(s.now()) {
		metrics.RecordReservation("past_slot")
		return nil, apperr.ErrPastSlot
	}

	booking, err := s.store.Reserve(ctx, Reservation{
		CustomerID: customerID,
		GymID:      gymID,
		SlotID:     slotID,
		Date:       date,
		CostCents:  g.CostCents,
		Capacity:   slot.Capacity,
	})
	if err != nil {
		metrics.RecordReservation(reservationOutcome(err))
		return nil, err
	}

	metrics.RecordReservation("accepted")
	logger.Info("reservation accepted",
		"booking_id", booking.ID,
		"customer_id", customerID,
		"slot_id", slotID,
		"date", date.Format(dateFormat),
	)

	if s.notifier != nil {
		s.notifier.BookingConfirmed(ctx, customerID, g.Name, slot.StartsAt(date))
	}

	return booking, nil
}

func reservationOutcome(err error) string {
	switch {
	case errors.Is(err, apperr.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, apperr.ErrSlotFull):
		return "slot_full"
	default:
		return "store_failure"
	}
}

func (s *service) GetCustomerBookings(ctx context.Context, customerID int) ([]Booking, error) {
	return s.store.GetCustomerBookings(ctx, customerID)
}

func (s *service) GetBookingsBySlotDate(ctx context.Context, slotID int, date time.Time) ([]BookingWithDetails, error) {
	return s.store.GetBookingsBySlotDate(ctx, slotID, date)
}

func (s *service) GetBookingsByGym(ctx context.Context, gymID int) ([]BookingWithDetails, error) {
	return s.store.GetBookingsByGym(ctx, gymID)
}
