package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"flipfit/internal/apperr"
	"flipfit/internal/wallet"
)

const dateFormat = "2006-01-02"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Store {
	return &repository{db: db}
}

// Reserve applies one reservation as a single transaction: balance and
// capacity are re-checked under row locks, then the booking row, the wallet
// debit and the occupancy increment are written together. The gym row is
// share-locked first, so a gym deletion committing after the precondition
// reads cannot leave this booking orphaned. Lock order is gym, then wallet,
// then occupancy; the deletion engine takes the same order.
func (r *repository) Reserve(ctx context.Context, res Reservation) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer tx.Rollback()

	var gymID int
	err = tx.GetContext(ctx, &gymID,
		`SELECT id FROM gyms WHERE id = $1 FOR SHARE`, res.GymID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Missing("gym", res.GymID)
	}
	if err != nil {
		return nil, apperr.Store(err)
	}

	w, err := wallet.LockTx(ctx, tx, res.CustomerID)
	if err != nil {
		return nil, apperr.Store(err)
	}
	if w.BalanceCents < res.CostCents {
		return nil, apperr.ErrInsufficientBalance
	}

	date := res.Date.Format(dateFormat)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO slot_occupancy (slot_id, booking_date, booked_count)
		VALUES ($1, $2, 0)
		ON CONFLICT (slot_id, booking_date) DO NOTHING
	`, res.SlotID, date)
	if err != nil {
		return nil, apperr.Store(err)
	}

	var bookedCount int
	err = tx.GetContext(ctx, &bookedCount, `
		SELECT booked_count FROM slot_occupancy
		WHERE slot_id = $1 AND booking_date = $2
		FOR UPDATE
	`, res.SlotID, date)
	if err != nil {
		return nil, apperr.Store(err)
	}
	if bookedCount >= res.Capacity {
		return nil, apperr.ErrSlotFull
	}

	var booking Booking
	err = tx.GetContext(ctx, &booking, `
		INSERT INTO bookings (customer_id, gym_id, slot_id, status, booking_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, customer_id, gym_id, slot_id, status, booking_date, created_at
	`, res.CustomerID, res.GymID, res.SlotID, StatusBooked, date)
	if err != nil {
		return nil, apperr.Store(err)
	}

	if err := wallet.DebitTx(ctx, tx, res.CustomerID, res.CostCents, wallet.TxBookingPayment); err != nil {
		if err == apperr.ErrInsufficientBalance {
			return nil, err
		}
		return nil, apperr.Store(err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE slot_occupancy
		SET booked_count = booked_count + 1
		WHERE slot_id = $1 AND booking_date = $2
	`, res.SlotID, date)
	if err != nil {
		return nil, apperr.Store(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Store(err)
	}

	return &booking, nil
}

func (r *repository) CountBooked(ctx context.Context, slotID int, date time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT booked_count
		FROM slot_occupancy
		WHERE slot_id = $1 AND booking_date = $2
	`, slotID, date.Format(dateFormat))
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *repository) GetCustomerBookings(ctx context.Context, customerID int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT id, customer_id, gym_id, slot_id, status, booking_date, created_at
		FROM bookings
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`, customerID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) GetBookingsBySlotDate(ctx context.Context, slotID int, date time.Time) ([]BookingWithDetails, error) {
	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT
			b.id,
			b.customer_id,
			b.gym_id,
			b.slot_id,
			b.status,
			b.booking_date,
			b.created_at,
			s.start_time AS slot_start,
			s.end_time AS slot_end,
			g.name AS gym_name,
			g.city AS gym_city
		FROM bookings b
		JOIN slots s ON b.slot_id = s.id
		JOIN gyms g ON b.gym_id = g.id
		WHERE b.slot_id = $1 AND b.booking_date = $2
		ORDER BY b.created_at DESC
	`, slotID, date.Format(dateFormat))
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) GetBookingsByGym(ctx context.Context, gymID int) ([]BookingWithDetails, error) {
	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT
			b.id,
			b.customer_id,
			b.gym_id,
			b.slot_id,
			b.status,
			b.booking_date,
			b.created_at,
			s.start_time AS slot_start,
			s.end_time AS slot_end,
			g.name AS gym_name,
			g.city AS gym_city
		FROM bookings b
		JOIN slots s ON b.slot_id = s.id
		JOIN gyms g ON b.gym_id = g.id
		WHERE b.gym_id = $1
		ORDER BY b.booking_date DESC, b.created_at DESC
	`, gymID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}
