package schedule

import (
	"context"

	"github.com/clinicops/clinic-backoffice/internal/audit"
	"github.com/clinicops/clinic-backoffice/internal/cache"
	domain "github.com/clinicops/clinic-backoffice/internal/domain/schedule"
)

type ReplaceRulesInput struct {
	UserID      uint
	RequestedBy uint
	Rules       []domain.Rule
}

// ReplaceRules swaps a staff member's entire working-hours rule set.
// The new set is validated before any write; an empty set simply clears
// the schedule.
type ReplaceRules struct {
	store     domain.RuleStore
	slotCache *cache.SlotCache
	audit     *audit.Dispatcher
}

func NewReplaceRules(
	store domain.RuleStore,
	slotCache *cache.SlotCache,
	audit *audit.Dispatcher,
) *ReplaceRules {
	return &ReplaceRules{
		store:     store,
		slotCache: slotCache,
		audit:     audit,
	}
}

func (uc *ReplaceRules) Execute(
	ctx context.Context,
	in ReplaceRulesInput,
) ([]domain.Rule, error) {

	for i := range in.Rules {
		in.Rules[i].UserID = in.UserID
	}

	if err := domain.ValidateRuleSet(in.Rules); err != nil {
		return nil, err
	}

	if err := uc.store.ReplaceRules(ctx, in.UserID, in.Rules); err != nil {
		return nil, err
	}

	uc.slotCache.InvalidateUser(ctx, in.UserID)

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.RequestedBy,
		Action:   "working_hours_replaced",
		Entity:   "working_hours",
		EntityID: &in.UserID,
		Metadata: map[string]any{"rules": len(in.Rules)},
	})

	return in.Rules, nil
}
