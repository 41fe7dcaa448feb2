package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"board-automation/internal/automation"
)

// cachedRuleRepository decorates a RuleRepository with an expiring LRU
// over ActiveRulesForTrigger, the one query on the dispatch hot path.
// The cache is an explicit object owned by whoever wires the engine,
// not an ambient global. Rule mutations pass through and invalidate the
// owning board's entries.
type cachedRuleRepository struct {
	inner RuleRepository
	cache *expirable.LRU[string, []automation.Rule]
}

// NewCachedRuleRepository wraps inner with an LRU of the given size and
// TTL. Size <= 0 or TTL <= 0 fall back to defaults.
func NewCachedRuleRepository(inner RuleRepository, size int, ttl time.Duration) RuleRepository {
	if size <= 0 {
		size = 512
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &cachedRuleRepository{
		inner: inner,
		cache: expirable.NewLRU[string, []automation.Rule](size, nil, ttl),
	}
}

func cacheKey(boardID string, trigger automation.TriggerType) string {
	return fmt.Sprintf("%s|%s", boardID, trigger)
}

// ActiveRulesForTrigger serves from cache when possible. Misses and
// store errors fall through to the inner adapter untouched, so the
// engine's transient-abort semantics are preserved.
func (c *cachedRuleRepository) ActiveRulesForTrigger(ctx context.Context, boardID string, trigger automation.TriggerType) ([]automation.Rule, error) {
	key := cacheKey(boardID, trigger)
	if rules, ok := c.cache.Get(key); ok {
		return rules, nil
	}

	rules, err := c.inner.ActiveRulesForTrigger(ctx, boardID, trigger)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, rules)
	return rules, nil
}

// invalidateBoard is the invalidation hook: it drops every cached
// trigger list for the board.
func (c *cachedRuleRepository) invalidateBoard(boardID string) {
	prefix := boardID + "|"
	for _, key := range c.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Remove(key)
		}
	}
}

func (c *cachedRuleRepository) CreateRule(ctx context.Context, opt CreateRuleOptions) (automation.Rule, error) {
	rule, err := c.inner.CreateRule(ctx, opt)
	if err != nil {
		return automation.Rule{}, err
	}
	c.invalidateBoard(rule.BoardID)
	return rule, nil
}

func (c *cachedRuleRepository) GetRule(ctx context.Context, id string) (automation.Rule, error) {
	return c.inner.GetRule(ctx, id)
}

func (c *cachedRuleRepository) ListRules(ctx context.Context, opt ListRulesOptions) ([]automation.Rule, int, error) {
	return c.inner.ListRules(ctx, opt)
}

func (c *cachedRuleRepository) SetRuleActive(ctx context.Context, id string, active bool) (automation.Rule, error) {
	rule, err := c.inner.SetRuleActive(ctx, id, active)
	if err != nil {
		return automation.Rule{}, err
	}
	c.invalidateBoard(rule.BoardID)
	return rule, nil
}

func (c *cachedRuleRepository) DeleteRule(ctx context.Context, id string) error {
	// The board is unknown after deletion, so look it up first. A miss
	// (already deleted) still delegates so the inner store decides.
	rule, err := c.inner.GetRule(ctx, id)
	if err != nil {
		return err
	}
	if err := c.inner.DeleteRule(ctx, id); err != nil {
		return err
	}
	if rule.BoardID != "" {
		c.invalidateBoard(rule.BoardID)
	}
	return nil
}
