package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/peerconnect/backend/internal/domain"
	"github.com/peerconnect/backend/internal/messages"
)

// SubscriptionService manages modules and scope grants.
type SubscriptionService struct {
	repo     domain.ModuleRepository
	notifier *Notifier
}

// NewSubscriptionService wires the module/grant use-cases.
func NewSubscriptionService(repo domain.ModuleRepository, notifier *Notifier) *SubscriptionService {
	return &SubscriptionService{repo: repo, notifier: notifier}
}

// Modules lists every module.
func (s *SubscriptionService) Modules(ctx context.Context) ([]domain.Module, error) {
	return s.repo.List(ctx)
}

// Subscribe grants the student visibility of a module. Cross-enrollment
// is allowed; the module just has to exist. A duplicate grant is an
// idempotent no-op, reported via inserted=false rather than an error.
func (s *SubscriptionService) Subscribe(ctx context.Context, studentID, moduleID int64) (*domain.Subscription, bool, error) {
	if studentID == 0 || moduleID == 0 {
		return nil, false, fmt.Errorf("%w: student and module ids must be numeric", domain.ErrValidation)
	}

	if _, err := s.repo.GetByID(ctx, moduleID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, fmt.Errorf("%w: module", domain.ErrNotFound)
		}
		return nil, false, fmt.Errorf("lookup module: %w", err)
	}

	sub, inserted, err := s.repo.Subscribe(ctx, studentID, moduleID)
	if err != nil {
		return nil, false, fmt.Errorf("subscribe: %w", err)
	}
	return sub, inserted, nil
}

// Subscriptions lists a student's subscription grants, newest first.
func (s *SubscriptionService) Subscriptions(ctx context.Context, studentID int64) ([]domain.Subscription, error) {
	return s.repo.Subscriptions(ctx, studentID)
}

// Unsubscribe removes a subscription grant by its id.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, subscriptionID int64) error {
	return s.repo.Unsubscribe(ctx, subscriptionID)
}

// GrantEnrollment upserts an enrollment grant coming from the registry
// service and announces it. The grant is idempotent.
func (s *SubscriptionService) GrantEnrollment(ctx context.Context, studentID, moduleID int64, sourceEventID string) error {
	mod, err := s.repo.GetByID(ctx, moduleID)
	if err != nil {
		return fmt.Errorf("lookup module %d: %w", moduleID, err)
	}

	if err := s.repo.GrantEnrollment(ctx, studentID, moduleID); err != nil {
		return fmt.Errorf("grant enrollment: %w", err)
	}

	s.notifier.Notify(ctx, domain.CreateNotificationInput{
		Type:          domain.TypeEnrollment,
		RefID:         moduleID,
		Message:       messages.EnrollmentGranted(mod.Name),
		SourceEventID: sourceEventID,
	})
	return nil
}
