// Package advice produces short financial insights for the ledger from a
// generative language model. Every failure degrades to a fixed insight;
// nothing here returns an error to the ledger.
package advice

import (
	"context"
	"errors"
	"fmt"

	"zen/internal/core"
	zlog "zen/internal/log"
)

// RecentLimit is the number of most recent transactions shown to the model.
const RecentLimit = 15

var ErrNoGenerator = errors.New("no advice generator configured")

// Advisor turns a ledger snapshot into insights. It never fails.
type Advisor interface {
	Advise(ctx context.Context, txs []core.Transaction, summary core.FinancialSummary) []core.Insight
}

// Generator sends a prompt to a language model and returns its raw text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Fallback insights shown when the model cannot be used.
var (
	InsightUnconfigured = core.Insight{
		Title:       "এআই সিস্টেম আপডেট",
		Description: "এআই পরামর্শ পেতে সিস্টেম কনফিগারেশন চেক করুন।",
		Type:        core.InsightInfo,
	}
	InsightUnavailable = core.Insight{
		Title:       "কোচ প্রস্তুত হচ্ছে",
		Description: "আপনার লেনদেনগুলো আরও বিশ্লেষণ করা হচ্ছে। কিছু সময় পর আবার চেষ্টা করুন।",
		Type:        core.InsightInfo,
	}
	InsightUnparsed = core.Insight{
		Title:       "বিশ্লেষণ সম্পন্ন",
		Description: "আপনার খরচগুলো নিয়ন্ত্রিত আছে। অপ্রয়োজনীয় খরচ এড়িয়ে চলার চেষ্টা করুন।",
		Type:        core.InsightInfo,
	}
)

// Service is the Advisor backed by a Generator.
type Service struct {
	gen    Generator
	logger *zlog.Logger
}

// NewService creates an advisor. gen may be nil, in which case every call
// returns InsightUnconfigured.
func NewService(gen Generator, logger *zlog.Logger) *Service {
	if logger == nil {
		logger = zlog.Default()
	}
	return &Service{gen: gen, logger: logger.WithComponent(zlog.ComponentAdvice)}
}

// Insights asks the model for advice. A non-nil error means the returned
// insights are a fallback rather than model output.
func (s *Service) Insights(ctx context.Context, txs []core.Transaction, summary core.FinancialSummary) ([]core.Insight, error) {
	if s.gen == nil {
		return []core.Insight{InsightUnconfigured}, ErrNoGenerator
	}
	if len(txs) == 0 {
		return []core.Insight{}, nil
	}

	prompt, err := BuildPrompt(txs, summary)
	if err != nil {
		return []core.Insight{InsightUnavailable}, fmt.Errorf("build prompt: %w", err)
	}

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return []core.Insight{InsightUnavailable}, fmt.Errorf("generate advice: %w", err)
	}

	insights, err := ParseInsights(text)
	if err != nil {
		return []core.Insight{InsightUnparsed}, fmt.Errorf("parse advice: %w", err)
	}
	return insights, nil
}

// Advise implements Advisor, logging the reason whenever a fallback is used.
func (s *Service) Advise(ctx context.Context, txs []core.Transaction, summary core.FinancialSummary) []core.Insight {
	insights, err := s.Insights(ctx, txs, summary)
	switch {
	case errors.Is(err, ErrNoGenerator):
		s.logger.WarnContext(ctx, "Advice generator not configured, using fallback")
	case err != nil:
		s.logger.ErrorContext(ctx, "Advice generation failed, using fallback",
			zlog.NewFields().WithOperation(zlog.OpAdvise).WithError(err).ToSlice()...)
	default:
		s.logger.DebugContext(ctx, "Advice generated", zlog.FieldCount, len(insights))
	}
	return insights
}
