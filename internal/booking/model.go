package booking

import "time"

const (
	StatusBooked    = "BOOKED"
	StatusCancelled = "CANCELLED"
)

type Booking struct {
	ID          int       `db:"id" json:"id"`
	CustomerID  int       `db:"customer_id" json:"customer_id"`
	GymID       int       `db:"gym_id" json:"gym_id"`
	SlotID      int       `db:"slot_id" json:"slot_id"`
	Status      string    `db:"status" json:"status"`
	BookingDate time.Time `db:"booking_date" json:"booking_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type BookingWithDetails struct {
	Booking
	SlotStart time.Time `db:"slot_start" json:"slot_start"`
	SlotEnd   time.Time `db:"slot_end" json:"slot_end"`
	GymName   string    `db:"gym_name" json:"gym_name"`
	GymCity   string    `db:"gym_city" json:"gym_city"`
}

// Reservation carries everything the store needs to apply one reservation
// atomically. Cost and capacity are resolved by the service before the
// transactional writes begin.
type Reservation struct {
	CustomerID int
	GymID      int
	SlotID     int
	Date       time.Time
	CostCents  int64
	Capacity   int
}

type ReserveRequest struct {
	GymID  int    `json:"gym_id" binding:"required"`
	SlotID int    `json:"slot_id" binding:"required"`
	Date   string `json:"date" binding:"required"`
}
