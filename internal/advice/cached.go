package advice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"zen/internal/cache"
	"zen/internal/core"
	zlog "zen/internal/log"
)

// InsightSource produces insights and reports whether they are model output.
type InsightSource interface {
	Insights(ctx context.Context, txs []core.Transaction, summary core.FinancialSummary) ([]core.Insight, error)
}

// CachedAdvisor memoises insights per ledger snapshot. Fallback results are
// returned but never cached.
type CachedAdvisor struct {
	source InsightSource
	cache  cache.Cache[[]core.Insight]
	logger *zlog.Logger
}

// NewCachedAdvisor wraps source with an LRU cache of size entries kept for ttl.
func NewCachedAdvisor(source InsightSource, size int, ttl time.Duration, logger *zlog.Logger) *CachedAdvisor {
	return NewCachedAdvisorWithCache(source, cache.NewLRUCache[[]core.Insight](size, ttl), logger)
}

// NewCachedAdvisorWithCache wraps source with an existing cache.
func NewCachedAdvisorWithCache(source InsightSource, c cache.Cache[[]core.Insight], logger *zlog.Logger) *CachedAdvisor {
	if logger == nil {
		logger = zlog.Default()
	}
	return &CachedAdvisor{source: source, cache: c, logger: logger.WithComponent(zlog.ComponentAdvice)}
}

// Advise implements Advisor.
func (a *CachedAdvisor) Advise(ctx context.Context, txs []core.Transaction, summary core.FinancialSummary) []core.Insight {
	key, ok := Fingerprint(txs, summary)
	if ok {
		if insights, hit := a.cache.Get(key); hit {
			a.logger.DebugContext(ctx, "Advice cache hit", "key", key[:12])
			return append([]core.Insight(nil), insights...)
		}
	}

	insights, err := a.source.Insights(ctx, txs, summary)
	if err != nil {
		a.logger.WarnContext(ctx, "Advice unavailable, using fallback",
			zlog.NewFields().WithOperation(zlog.OpAdvise).WithError(err).ToSlice()...)
		return insights
	}
	if ok {
		a.cache.Set(key, append([]core.Insight(nil), insights...))
	}
	return insights
}

// CleanExpired evicts expired advice when the underlying cache supports it,
// so a CachedAdvisor can be registered with a cache.Manager.
func (a *CachedAdvisor) CleanExpired() int {
	if c, ok := a.cache.(cache.Cleaner); ok {
		return c.CleanExpired()
	}
	return 0
}

// Fingerprint identifies the ledger snapshot the model would see. It is the
// SHA-256 of the rendered prompt; ok is false when the prompt cannot be built.
func Fingerprint(txs []core.Transaction, summary core.FinancialSummary) (string, bool) {
	prompt, err := BuildPrompt(txs, summary)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:]), true
}
