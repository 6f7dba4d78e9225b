package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"flipfit/internal/apperr"
	"flipfit/internal/gym"
	"flipfit/internal/user"
	"flipfit/internal/wallet"
)

// futureBooked matches BOOKED rows whose slot start on the booking date is
// still ahead of the current instant.
const futureBooked = `b.status = 'BOOKED' AND (b.booking_date + s.start_time) > NOW()`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Store {
	return &repository{db: db}
}

// DeleteUser removes a user and everything hanging off their role record.
// Exactly one branch applies: customer, gym owner (each owned gym removed
// with gym-delete semantics), or admin. The whole dispatch runs in a single
// transaction; any failure rolls everything back.
func (r *repository) DeleteUser(ctx context.Context, userID int) (*DeletionResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, unableToDelete(userID, err)
	}
	defer tx.Rollback()

	var isCustomer, isOwner bool
	if err := tx.GetContext(ctx, &isCustomer,
		`SELECT EXISTS(SELECT 1 FROM customers WHERE user_id = $1)`, userID); err != nil {
		return nil, unableToDelete(userID, err)
	}
	if err := tx.GetContext(ctx, &isOwner,
		`SELECT EXISTS(SELECT 1 FROM gym_owners WHERE user_id = $1)`, userID); err != nil {
		return nil, unableToDelete(userID, err)
	}

	result := &DeletionResult{}
	switch {
	case isCustomer:
		result.Kind = "customer"
		if err := r.deleteCustomerTx(ctx, tx, userID); err != nil {
			return nil, unableToDelete(userID, err)
		}
	case isOwner:
		result.Kind = "owner"
		var gymIDs []int
		if err := tx.SelectContext(ctx, &gymIDs,
			`SELECT id FROM gyms WHERE owner_id = $1`, userID); err != nil {
			return nil, unableToDelete(userID, err)
		}
		for _, gymID := range gymIDs {
			refunds, err := r.deleteGymTx(ctx, tx, gymID)
			if err != nil {
				return nil, unableToDelete(userID, err)
			}
			result.Refunds = append(result.Refunds, refunds...)
		}
		if err := wallet.DeleteTx(ctx, tx, userID); err != nil {
			return nil, unableToDelete(userID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM gym_owners WHERE user_id = $1`, userID); err != nil {
			return nil, unableToDelete(userID, err)
		}
	default:
		result.Kind = "admin"
		if err := wallet.DeleteTx(ctx, tx, userID); err != nil {
			return nil, unableToDelete(userID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM admins WHERE user_id = $1`, userID); err != nil {
			return nil, unableToDelete(userID, err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return nil, unableToDelete(userID, err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return nil, fmt.Errorf("%w: user %d not found", apperr.ErrUnableToDelete, userID)
	}

	if err := tx.Commit(); err != nil {
		return nil, unableToDelete(userID, err)
	}

	return result, nil
}

// DeleteGym removes one gym with its slots and bookings, refunding customers
// for future bookings first. One transaction, rolled back entirely on any
// failure.
func (r *repository) DeleteGym(ctx context.Context, gymID int) (*DeletionResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer tx.Rollback()

	refunds, err := r.deleteGymTx(ctx, tx, gymID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Store(err)
	}

	return &DeletionResult{Kind: "gym", Refunds: refunds}, nil
}

// deleteCustomerTx runs the customer cascade inside the caller's transaction:
// destroy the wallet, release occupancy held by future bookings, then delete
// booking and role rows. The wallet is locked before any occupancy row,
// matching the reservation path's lock order. No refund is credited: the
// wallet is destroyed in the same transaction, so a credit here would have no
// observable effect.
func (r *repository) deleteCustomerTx(ctx context.Context, tx *sqlx.Tx, userID int) error {
	if err := wallet.DeleteTx(ctx, tx, userID); err != nil {
		return err
	}

	type held struct {
		SlotID      int    `db:"slot_id"`
		BookingDate string `db:"booking_date"`
		Count       int    `db:"count"`
	}
	var future []held
	err := tx.SelectContext(ctx, &future, `
		SELECT b.slot_id, b.booking_date::text AS booking_date, COUNT(*) AS count
		FROM bookings b
		JOIN slots s ON b.slot_id = s.id
		WHERE b.customer_id = $1 AND `+futureBooked+`
		GROUP BY b.slot_id, b.booking_date
	`, userID)
	if err != nil {
		return err
	}

	for _, h := range future {
		_, err = tx.ExecContext(ctx, `
			UPDATE slot_occupancy
			SET booked_count = booked_count - $1
			WHERE slot_id = $2 AND booking_date = $3
		`, h.Count, h.SlotID, h.BookingDate)
		if err != nil {
			return err
		}
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM bookings WHERE customer_id = $1`, userID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM customers WHERE user_id = $1`, userID)
	return err
}

// deleteGymTx runs the gym cascade inside the caller's transaction in a fixed
// order: lock the gym row, compute refunds, credit each affected wallet, then
// delete bookings, occupancy, slots and finally the gym row. The exclusive
// gym lock conflicts with the share lock reservations take, so no reservation
// can commit against a gym mid-deletion.
func (r *repository) deleteGymTx(ctx context.Context, tx *sqlx.Tx, gymID int) ([]Refund, error) {
	var lockedID int
	err := tx.GetContext(ctx, &lockedID,
		`SELECT id FROM gyms WHERE id = $1 FOR UPDATE`, gymID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Missing("gym", gymID)
	}
	if err != nil {
		return nil, apperr.Store(err)
	}

	var refunds []Refund
	err = tx.SelectContext(ctx, &refunds, `
		SELECT b.customer_id, u.email, u.name, COUNT(*) AS future_bookings, g.cost_cents
		FROM bookings b
		JOIN slots s ON b.slot_id = s.id
		JOIN gyms g ON b.gym_id = g.id
		JOIN users u ON b.customer_id = u.id
		WHERE b.gym_id = $1 AND `+futureBooked+`
		GROUP BY b.customer_id, u.email, u.name, g.cost_cents
	`, gymID)
	if err != nil {
		return nil, apperr.Store(err)
	}

	for _, refund := range refunds {
		if err := wallet.CreditTx(ctx, tx, refund.CustomerID, refund.AmountCents(), wallet.TxRefund); err != nil {
			return nil, apperr.Store(err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM bookings WHERE gym_id = $1`, gymID); err != nil {
		return nil, apperr.Store(err)
	}
	if _, err = tx.ExecContext(ctx, `
		DELETE FROM slot_occupancy
		WHERE slot_id IN (SELECT id FROM slots WHERE gym_id = $1)
	`, gymID); err != nil {
		return nil, apperr.Store(err)
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM slots WHERE gym_id = $1`, gymID); err != nil {
		return nil, apperr.Store(err)
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM gyms WHERE id = $1`, gymID); err != nil {
		return nil, apperr.Store(err)
	}

	return refunds, nil
}

func unableToDelete(userID int, err error) error {
	return fmt.Errorf("%w: user %d: %v", apperr.ErrUnableToDelete, userID, err)
}

func (r *repository) ApproveGym(ctx context.Context, gymID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE gyms SET approved = TRUE WHERE id = $1`, gymID)
	if err != nil {
		return apperr.Store(err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return apperr.Missing("gym", gymID)
	}
	return nil
}

func (r *repository) ApproveOwner(ctx context.Context, ownerID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE gym_owners SET approved = TRUE WHERE user_id = $1`, ownerID)
	if err != nil {
		return apperr.Store(err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return apperr.Missing("gym owner", ownerID)
	}
	return nil
}

func (r *repository) ListPendingGyms(ctx context.Context) ([]gym.Gym, error) {
	var gyms []gym.Gym
	err := r.db.SelectContext(ctx, &gyms, `
		SELECT id, owner_id, name, city, cost_cents, approved, created_at
		FROM gyms
		WHERE approved = FALSE
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	return gyms, nil
}

func (r *repository) ListPendingOwners(ctx context.Context) ([]user.User, error) {
	var users []user.User
	err := r.db.SelectContext(ctx, &users, `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.created_at
		FROM users u
		JOIN gym_owners o ON o.user_id = u.id
		WHERE o.approved = FALSE
		ORDER BY u.created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) ListUsers(ctx context.Context) ([]user.User, error) {
	var users []user.User
	err := r.db.SelectContext(ctx, &users, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	return users, nil
}
