package gym

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateGym(ctx context.Context, ownerID int, name, city string, costCents int64) (*Gym, error) {
	query := `
		INSERT INTO gyms (owner_id, name, city, cost_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, name, city, cost_cents, approved, created_at
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, ownerID, name, city, costCents)
	if err != nil {
		return nil, err
	}

	return &gym, nil
}

func (r *repository) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	query := `
		SELECT id, owner_id, name, city, cost_cents, approved, created_at
		FROM gyms
		WHERE id = $1
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, id)
	if err != nil {
		return nil, err
	}

	return &gym, nil
}

func (r *repository) ListGyms(ctx context.Context, approvedOnly bool) ([]Gym, error) {
	query := `
		SELECT id, owner_id, name, city, cost_cents, approved, created_at
		FROM gyms
	`
	if approvedOnly {
		query += " WHERE approved = TRUE"
	}
	query += " ORDER BY created_at DESC"

	var gyms []Gym
	err := r.db.SelectContext(ctx, &gyms, query)
	if err != nil {
		return nil, err
	}

	return gyms, nil
}

func (r *repository) ListGymsByOwner(ctx context.Context, ownerID int) ([]Gym, error) {
	query := `
		SELECT id, owner_id, name, city, cost_cents, approved, created_at
		FROM gyms
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	var gyms []Gym
	err := r.db.SelectContext(ctx, &gyms, query, ownerID)
	if err != nil {
		return nil, err
	}

	return gyms, nil
}

func (r *repository) CreateSlot(ctx context.Context, gymID int, startTime, endTime string, capacity int) (*Slot, error) {
	query := `
		INSERT INTO slots (gym_id, start_time, end_time, capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, gym_id, start_time, end_time, capacity, created_at
	`

	var slot Slot
	err := r.db.GetContext(ctx, &slot, query, gymID, startTime, endTime, capacity)
	if err != nil {
		return nil, err
	}

	return &slot, nil
}

func (r *repository) GetSlotByID(ctx context.Context, id int) (*Slot, error) {
	query := `
		SELECT id, gym_id, start_time, end_time, capacity, created_at
		FROM slots
		WHERE id = $1
	`

	var slot Slot
	err := r.db.GetContext(ctx, &slot, query, id)
	if err != nil {
		return nil, err
	}

	return &slot, nil
}

func (r *repository) ListSlotsByGym(ctx context.Context, gymID int) ([]Slot, error) {
	query := `
		SELECT id, gym_id, start_time, end_time, capacity, created_at
		FROM slots
		WHERE gym_id = $1
		ORDER BY start_time ASC
	`

	var slots []Slot
	err := r.db.SelectContext(ctx, &slots, query, gymID)
	if err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *repository) ListSlotsWithAvailability(ctx context.Context, gymID int, date time.Time) ([]SlotWithAvailability, error) {
	query := `
		SELECT
			s.id,
			s.gym_id,
			s.start_time,
			s.end_time,
			s.capacity,
			s.created_at,
			COALESCE(o.booked_count, 0) AS booked_count
		FROM slots s
		LEFT JOIN slot_occupancy o ON o.slot_id = s.id AND o.booking_date = $2
		WHERE s.gym_id = $1
		ORDER BY s.start_time ASC
	`

	var slots []SlotWithAvailability
	err := r.db.SelectContext(ctx, &slots, query, gymID, date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	for i := range slots {
		slots[i].Available = slots[i].Capacity - slots[i].BookedCount
		slots[i].IsFull = slots[i].Available <= 0
	}

	return slots, nil
}
