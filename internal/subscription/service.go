package subscription

import (
	"context"

	"github.com/ayush/flowbit/backend/internal/models"
)

// Store defines the interface for subscription persistence.
type Store interface {
	Insert(ctx context.Context, sub *models.Subscription) (*models.Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]models.Subscription, error)
	GetByID(ctx context.Context, id string) (*models.Subscription, error)
	Update(ctx context.Context, id, userID string, fields models.SubscriptionFields) (*models.Subscription, error)
	Delete(ctx context.Context, id, userID string) error
}

// Service implements subscription CRUD scoped to the calling user.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the user's subscriptions, soonest due first.
func (s *Service) List(ctx context.Context, userID string) ([]models.Subscription, error) {
	return s.store.ListByUser(ctx, userID)
}

// Create validates the fields and stores a new subscription for userID.
func (s *Service) Create(ctx context.Context, userID string, fields models.SubscriptionFields) (*models.Subscription, error) {
	if err := fields.ValidateCreate(); err != nil {
		return nil, err
	}
	return s.store.Insert(ctx, models.NewSubscription(userID, fields))
}

// Update overwrites the supplied fields of a subscription the user owns.
func (s *Service) Update(ctx context.Context, userID, id string, fields models.SubscriptionFields) (*models.Subscription, error) {
	existing, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := fields.ValidatePatch(); err != nil {
		return nil, err
	}
	if fields.Empty() {
		return existing, nil
	}
	return s.store.Update(ctx, id, userID, fields)
}

// Delete removes a subscription the user owns.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id, userID)
}

// Stats recomputes the user's spending breakdown.
func (s *Service) Stats(ctx context.Context, userID string) (models.Stats, error) {
	subs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return models.Stats{}, err
	}
	return ComputeStats(subs), nil
}

// owned loads a subscription and checks it belongs to userID.
func (s *Service) owned(ctx context.Context, userID, id string) (*models.Subscription, error) {
	sub, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, models.ErrForbidden
	}
	return sub, nil
}
