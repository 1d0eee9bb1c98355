package services

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"zen/internal/core"
)

var autoMarker = regexp.MustCompile(`\[Auto:([^\]]+)\]`)

// AutoMarker is the note tag linking an occurrence to its template.
func AutoMarker(templateID string) string {
	return "[Auto:" + templateID + "]"
}

// IDFunc generates transaction ids.
type IDFunc func() string

// NewOccurrenceID returns "auto-" followed by a random UUID.
func NewOccurrenceID() string {
	return "auto-" + uuid.NewString()
}

// RecurringProcessor materializes monthly occurrences of recurring templates.
type RecurringProcessor struct {
	newID IDFunc
}

// NewRecurringProcessor creates a processor. A nil newID uses NewOccurrenceID.
func NewRecurringProcessor(newID IDFunc) *RecurringProcessor {
	if newID == nil {
		newID = NewOccurrenceID
	}
	return &RecurringProcessor{newID: newID}
}

// Materialize returns the occurrences that are due in now's month and do not
// exist yet, in template order. txs is not modified; a template that fails
// validation is logged and skipped.
func (p *RecurringProcessor) Materialize(ctx context.Context, txs []core.Transaction, now time.Time) []core.Transaction {
	loc := now.Location()
	month := core.MonthKeyOf(now, loc)
	done := existingOccurrences(txs, month, loc)

	var (
		out       []core.Transaction
		templates int
	)
	for _, tpl := range txs {
		if !tpl.IsRecurring {
			continue
		}
		templates++

		if err := tpl.Validate(); err != nil {
			slog.WarnContext(ctx, "Skipping malformed recurring template",
				"id", tpl.ID,
				"error", err)
			continue
		}
		if done[tpl.ID] {
			continue
		}

		checker, err := GetDuenessChecker(templateFrequency(tpl))
		if err != nil {
			slog.DebugContext(ctx, "Skipping template with unsupported frequency",
				"id", tpl.ID,
				"frequency", tpl.Frequency)
			continue
		}

		date, due := checker.Occurrence(tpl.Date, now)
		if !due {
			continue
		}

		occ := core.Transaction{
			ID:               p.newID(),
			Type:             tpl.Type,
			Amount:           tpl.Amount,
			Category:         tpl.Category,
			Date:             date,
			Note:             markedNote(tpl.Note, tpl.ID),
			IsRecurring:      false,
			Frequency:        core.FrequencyNone,
			SourceTemplateID: tpl.ID,
			OccurrenceMonth:  month,
		}
		done[tpl.ID] = true
		out = append(out, occ)

		slog.InfoContext(ctx, "Materialized recurring transaction",
			"template_id", tpl.ID,
			"occurrence_id", occ.ID,
			"date", occ.Date.Format("2006-01-02"),
			"amount", occ.Amount)
	}

	if templates > 0 {
		slog.DebugContext(ctx, "Recurring materialization complete",
			"templates", templates,
			"created", len(out),
			"month", month.String())
	}
	return out
}

// Prepend returns a new list with occ ahead of txs.
func Prepend(occ, txs []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, 0, len(occ)+len(txs))
	out = append(out, occ...)
	return append(out, txs...)
}

// templateFrequency reads an unset frequency on a recurring record as monthly;
// older records only carried the flag.
func templateFrequency(tpl core.Transaction) core.Frequency {
	if tpl.Frequency == "" {
		return core.FrequencyMonthly
	}
	return tpl.Frequency
}

func markedNote(note, templateID string) string {
	if note == "" {
		return AutoMarker(templateID)
	}
	return note + " " + AutoMarker(templateID)
}

// existingOccurrences returns the template ids already materialized in month.
// Occurrences without structured fields are recognised by their note marker.
func existingOccurrences(txs []core.Transaction, month core.MonthKey, loc *time.Location) map[string]bool {
	done := make(map[string]bool)
	for _, tx := range txs {
		if tx.IsOccurrence() {
			if tx.OccurrenceMonth == month {
				done[tx.SourceTemplateID] = true
			}
			continue
		}
		if !month.Contains(tx.Date, loc) {
			continue
		}
		for _, m := range autoMarker.FindAllStringSubmatch(tx.Note, -1) {
			done[m[1]] = true
		}
	}
	return done
}
