package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adisurya/circulation-engine/internal/domain"
	"github.com/adisurya/circulation-engine/internal/repository"
	customError "github.com/adisurya/circulation-engine/pkg/errors"
)

// PolicyCatalog is the read-only lookup of per-item-type circulation rules,
// with a read-through Redis cache in front of the policy table. Policy
// administration is not part of the engine.
type PolicyCatalog struct {
	policyRepo repository.PolicyRepository
	redis      *redis.Client
	cacheTTL   time.Duration
}

func NewPolicyCatalog(policyRepo repository.PolicyRepository, redisClient *redis.Client, cacheTTL time.Duration) *PolicyCatalog {
	return &PolicyCatalog{
		policyRepo: policyRepo,
		redis:      redisClient,
		cacheTTL:   cacheTTL,
	}
}

func policyCacheKey(itemType string) string {
	return fmt.Sprintf("loan_policy:%s", itemType)
}

// Lookup returns the policy for an item type
func (c *PolicyCatalog) Lookup(ctx context.Context, itemType string) (*domain.LoanPolicy, error) {
	if c.redis != nil {
		cached, err := c.redis.Get(ctx, policyCacheKey(itemType)).Result()
		if err == nil {
			var policy domain.LoanPolicy
			if err := json.Unmarshal([]byte(cached), &policy); err == nil {
				return &policy, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			// Cache trouble is not a lookup failure; fall through to the database
			log.Printf("policy cache read failed for %s: %v", itemType, err)
		}
	}

	policy, err := c.policyRepo.GetByItemType(ctx, itemType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapPolicyNotFound(itemType)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if c.redis != nil {
		if data, err := json.Marshal(policy); err == nil {
			if err := c.redis.Set(ctx, policyCacheKey(itemType), data, c.cacheTTL).Err(); err != nil {
				log.Printf("policy cache write failed for %s: %v", itemType, err)
			}
		}
	}

	return policy, nil
}
