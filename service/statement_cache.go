// file: service/statement_cache.go

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"go-atm/model"
	"time"
)

// statementTTL bounds how stale a cached mini statement can get if an
// invalidation is ever missed.
const statementTTL = 10 * time.Minute

// StatementCache keeps mini statements in Redis using a cache-aside
// strategy: reads try the cache first, every money movement invalidates the
// touched accounts. A nil *StatementCache is valid and disables caching,
// which is how the machine runs when Redis is not configured.
type StatementCache struct {
	client ICacheClient
}

func NewStatementCache(client ICacheClient) *StatementCache {
	return &StatementCache{client: client}
}

func (c *StatementCache) key(accountNo string) string {
	return fmt.Sprintf("statement:%s", accountNo)
}

// Get returns the cached statement for an account, if present.
func (c *StatementCache) Get(ctx context.Context, accountNo string) ([]*model.Transaction, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	cached, err := c.client.Get(ctx, c.key(accountNo)).Result()
	if err != nil {
		return nil, false
	}

	var transactions []*model.Transaction
	if err := json.Unmarshal([]byte(cached), &transactions); err != nil {
		return nil, false
	}
	return transactions, true
}

// Set stores a statement. Failures are ignored; the cache is best-effort.
func (c *StatementCache) Set(ctx context.Context, accountNo string, transactions []*model.Transaction) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(transactions)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.key(accountNo), data, statementTTL)
}

// Invalidate drops the cached statements for the given accounts.
func (c *StatementCache) Invalidate(ctx context.Context, accountNos ...string) {
	if c == nil || c.client == nil || len(accountNos) == 0 {
		return
	}

	keys := make([]string, 0, len(accountNos))
	for _, accountNo := range accountNos {
		keys = append(keys, c.key(accountNo))
	}
	c.client.Del(ctx, keys...)
}
