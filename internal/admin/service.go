package admin

import (
	"context"

	"flipfit/internal/gym"
	"flipfit/internal/logger"
	"flipfit/internal/metrics"
	"flipfit/internal/user"
)

type Service interface {
	DeleteUser(ctx context.Context, userID int) (*DeletionResult, error)
	DeleteGym(ctx context.Context, gymID int) (*DeletionResult, error)
	ApproveGym(ctx context.Context, gymID int) error
	ApproveOwner(ctx context.Context, ownerID int) error
	ListPendingGyms(ctx context.Context) ([]gym.Gym, error)
	ListPendingOwners(ctx context.Context) ([]user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
}

// Notifier is told about refunds after the deletion committed.
type Notifier interface {
	RefundIssued(ctx context.Context, email, name string, amountCents int64)
}

type service struct {
	store    Store
	notifier Notifier
}

func NewService(store Store, notifier Notifier) Service {
	return &service{store: store, notifier: notifier}
}

func (s *service) DeleteUser(ctx context.Context, userID int) (*DeletionResult, error) {
	result, err := s.store.DeleteUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	metrics.RecordDeletion(result.Kind)
	metrics.RecordRefund(result.RefundedCents())
	logger.Info("user deleted",
		"user_id", userID,
		"kind", result.Kind,
		"refunded_cents", result.RefundedCents(),
	)
	s.notifyRefunds(ctx, result)

	return result, nil
}

func (s *service) DeleteGym(ctx context.Context, gymID int) (*DeletionResult, error) {
	result, err := s.store.DeleteGym(ctx, gymID)
	if err != nil {
		return nil, err
	}

	metrics.RecordDeletion(result.Kind)
	metrics.RecordRefund(result.RefundedCents())
	logger.Info("gym deleted",
		"gym_id", gymID,
		"refunded_cents", result.RefundedCents(),
		"customers_refunded", len(result.Refunds),
	)
	s.notifyRefunds(ctx, result)

	return result, nil
}

func (s *service) notifyRefunds(ctx context.Context, result *DeletionResult) {
	if s.notifier == nil || result.Kind == "customer" {
		return
	}
	for _, r := range result.Refunds {
		s.notifier.RefundIssued(ctx, r.Email, r.Name, r.AmountCents())
	}
}

func (s *service) ApproveGym(ctx context.Context, gymID int) error {
	return s.store.ApproveGym(ctx, gymID)
}

func (s *service) ApproveOwner(ctx context.Context, ownerID int) error {
	return s.store.ApproveOwner(ctx, ownerID)
}

func (s *service) ListPendingGyms(ctx context.Context) ([]gym.Gym, error) {
	return s.store.ListPendingGyms(ctx)
}

func (s *service) ListPendingOwners(ctx context.Context) ([]user.User, error) {
	return s.store.ListPendingOwners(ctx)
}

func (s *service) ListUsers(ctx context.Context) ([]user.User, error) {
	return s.store.ListUsers(ctx)
}
