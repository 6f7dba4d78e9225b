package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"flipfit/internal/apperr"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w, `SELECT * FROM wallets WHERE user_id = $1`, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO wallets (user_id)
		 VALUES ($1)
		 RETURNING id, user_id, balance_cents, currency, created_at, updated_at`,
		userID,
	).StructScan(w)
	if err != nil {
		return nil, err
	}

	return w, nil
}

// GetBalance returns the wallet balance, zero if no wallet row exists yet.
func (r *Repository) GetBalance(ctx context.Context, userID int) (int64, error) {
	var balance int64
	err := r.db.GetContext(ctx, &balance,
		`SELECT balance_cents FROM wallets WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *Repository) TopUp(ctx context.Context, userID int, amountCents int64) error {
	if amountCents <= 0 {
		return errors.New("top up amount must be positive")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := CreditTx(ctx, tx, userID, amountCents, TxTopUp); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var walletID int
	err := r.db.GetContext(ctx, &walletID, `SELECT id FROM wallets WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Transaction{}, nil
		}
		return nil, err
	}

	var txs []Transaction
	err = r.db.SelectContext(ctx, &txs, `
		SELECT id, wallet_id, amount_cents, type, balance_after, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, walletID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}

// LockTx reads the wallet row FOR UPDATE inside the caller's transaction,
// creating the row if the customer never touched their wallet before. The
// lock is held until the transaction ends. Engines that also lock occupancy
// rows must take the wallet lock first.
func LockTx(ctx context.Context, tx *sqlx.Tx, userID int) (*Wallet, error) {
	var w Wallet
	err := tx.QueryRowxContext(ctx,
		`SELECT id, user_id, balance_cents, currency, created_at, updated_at
		 FROM wallets
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(&w)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowxContext(ctx,
			`INSERT INTO wallets (user_id)
			 VALUES ($1)
			 RETURNING id, user_id, balance_cents, currency, created_at, updated_at`,
			userID,
		).StructScan(&w)
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ApplyTx records a signed amount against a wallet locked by LockTx, updating
// the balance and appending the audit row.
func ApplyTx(ctx context.Context, tx *sqlx.Tx, w *Wallet, amountCents int64, txType string) error {
	newBalance := w.BalanceCents + amountCents

	_, err := tx.ExecContext(ctx,
		`UPDATE wallets
		 SET balance_cents = $1, updated_at = NOW()
		 WHERE id = $2`,
		newBalance, w.ID,
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_transactions (wallet_id, amount_cents, type, balance_after)
		 VALUES ($1, $2, $3, $4)`,
		w.ID, amountCents, txType, newBalance,
	)
	return err
}

// DeleteTx removes the wallet and its transaction rows inside the caller's
// transaction. The wallet row is locked first, so a concurrent reservation
// cannot debit a wallet that is being destroyed. A user who never touched
// their wallet has no row; that is not an error.
func DeleteTx(ctx context.Context, tx *sqlx.Tx, userID int) error {
	var walletID int
	err := tx.GetContext(ctx, &walletID,
		`SELECT id FROM wallets WHERE user_id = $1 FOR UPDATE`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM wallet_transactions WHERE wallet_id = $1`, walletID); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM wallets WHERE id = $1`, walletID)
	return err
}

// CreditTx increases the balance inside the caller's transaction. Used for
// top-ups and for refunds issued by the deletion engine.
func CreditTx(ctx context.Context, tx *sqlx.Tx, userID int, amountCents int64, txType string) error {
	w, err := LockTx(ctx, tx, userID)
	if err != nil {
		return err
	}
	return ApplyTx(ctx, tx, w, amountCents, txType)
}

// DebitTx decreases the balance inside the caller's transaction. The
// non-negativity check happens under the row lock, so a stale precondition
// read can never drive the balance below zero.
func DebitTx(ctx context.Context, tx *sqlx.Tx, userID int, amountCents int64, txType string) error {
	w, err := LockTx(ctx, tx, userID)
	if err != nil {
		return err
	}
	if w.BalanceCents < amountCents {
		return apperr.ErrInsufficientBalance
	}
	return ApplyTx(ctx, tx, w, -amountCents, txType)
}
