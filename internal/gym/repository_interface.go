package gym

import (
	"context"
	"time"
)

type Repository interface {
	CreateGym(ctx context.Context, ownerID int, name, city string, costCents int64) (*Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	ListGyms(ctx context.Context, approvedOnly bool) ([]Gym, error)
	ListGymsByOwner(ctx context.Context, ownerID int) ([]Gym, error)
	CreateSlot(ctx context.Context, gymID int, startTime, endTime string, capacity int) (*Slot, error)
	GetSlotByID(ctx context.Context, id int) (*Slot, error)
	ListSlotsByGym(ctx context.Context, gymID int) ([]Slot, error)
	ListSlotsWithAvailability(ctx context.Context, gymID int, date time.Time) ([]SlotWithAvailability, error)
}
