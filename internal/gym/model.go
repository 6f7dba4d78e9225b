package gym

import "time"

type Gym struct {
	ID        int       `db:"id" json:"id"`
	OwnerID   int       `db:"owner_id" json:"owner_id"`
	Name      string    `db:"name" json:"name"`
	City      string    `db:"city" json:"city"`
	CostCents int64     `db:"cost_cents" json:"cost_cents"`
	Approved  bool      `db:"approved" json:"approved"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Slot is a daily time window at a gym. Occupancy is tracked per concrete
// booking date, not on the slot itself.
type Slot struct {
	ID        int       `db:"id" json:"id"`
	GymID     int       `db:"gym_id" json:"gym_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StartsAt anchors the slot's start clock time on the given date.
func (s *Slot) StartsAt(date time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		s.StartTime.Hour(), s.StartTime.Minute(), s.StartTime.Second(), 0,
		time.Local,
	)
}

type SlotWithAvailability struct {
	Slot
	BookedCount int  `db:"booked_count" json:"booked_count"`
	Available   int  `json:"available"`
	IsFull      bool `json:"is_full"`
}

type CreateGymRequest struct {
	Name      string `json:"name" binding:"required"`
	City      string `json:"city" binding:"required"`
	CostCents int64  `json:"cost_cents" binding:"required,min=0"`
}

type CreateSlotRequest struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Capacity  int    `json:"capacity" binding:"required,min=1"`
}
