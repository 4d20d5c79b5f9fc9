package service

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"loan-eligibility/domain"
	"loan-eligibility/repository"
)

const decisionKeyPrefix = "loan-decision:"

// DecisionStore keeps assessed decisions long enough for the borrower to
// confirm them.
type DecisionStore struct {
	cache repository.CacheRepository
	ttl   time.Duration
}

type storedDecision struct {
	Result    domain.EligibilityResult `json:"result"`
	UserID    string                   `json:"userId"`
	AccountID string                   `json:"accountId"`
}

func NewDecisionStore(cache repository.CacheRepository, ttl time.Duration) *DecisionStore {
	return &DecisionStore{cache: cache, ttl: ttl}
}

func (s *DecisionStore) Save(ctx context.Context, r domain.EligibilityResult) error {
	payload, err := json.Marshal(storedDecision{Result: r, UserID: r.UserID, AccountID: r.AccountID})
	if err != nil {
		return fmt.Errorf("encode decision %s: %w", r.DecisionID, err)
	}
	return s.cache.Set(ctx, decisionKeyPrefix+r.DecisionID, string(payload), s.ttl)
}

func (s *DecisionStore) Load(ctx context.Context, decisionID string) (domain.EligibilityResult, error) {
	raw, ok, err := s.cache.Get(ctx, decisionKeyPrefix+decisionID)
	if err != nil {
		return domain.EligibilityResult{}, fmt.Errorf("load decision %s: %w", decisionID, err)
	}
	if !ok {
		return domain.EligibilityResult{}, domain.ErrDecisionNotFound
	}

	var stored storedDecision
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return domain.EligibilityResult{}, fmt.Errorf("decode decision %s: %w", decisionID, err)
	}
	r := stored.Result
	r.UserID, r.AccountID = stored.UserID, stored.AccountID
	return r, nil
}

func (s *DecisionStore) Delete(ctx context.Context, decisionID string) error {
	return s.cache.Delete(ctx, decisionKeyPrefix+decisionID)
}
