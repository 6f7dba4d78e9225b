package admin

import (
	"context"

	"flipfit/internal/gym"
	"flipfit/internal/user"
)

// Store is the transactional backend of the deletion engine plus the admin
// approval and listing surface. The deletion methods run their whole cascade
// in one transaction; nothing intermediate is ever visible.
type Store interface {
	DeleteUser(ctx context.Context, userID int) (*DeletionResult, error)
	DeleteGym(ctx context.Context, gymID int) (*DeletionResult, error)

	ApproveGym(ctx context.Context, gymID int) error
	ApproveOwner(ctx context.Context, ownerID int) error
	ListPendingGyms(ctx context.Context) ([]gym.Gym, error)
	ListPendingOwners(ctx context.Context) ([]user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
}
