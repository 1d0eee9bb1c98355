package advice

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"zen/internal/core"
	"zen/internal/services"
)

type promptTransaction struct {
	Type     core.TransactionType `json:"type"`
	Amount   float64              `json:"amount"`
	Category string               `json:"category"`
	Date     string               `json:"date"`
}

const promptTemplate = `তুমি একজন দক্ষ ব্যক্তিগত আর্থিক উপদেষ্টা। নিচের আর্থিক সারাংশ বিশ্লেষণ করো এবং ৩টি গুরুত্বপূর্ণ পরামর্শ দাও।

চলতি মাসের সারাংশ:
- বর্তমান ব্যালেন্স: ৳%s
- মোট আয়: ৳%s
- মোট ব্যয়: ৳%s
- গত মাসের সঞ্চয়: ৳%s

ক্যাটাগরি অনুযায়ী খরচ:
%s

সাম্প্রতিক লেনদেন:
%s

নিয়ম:
১. উত্তর অবশ্যই বাংলা ভাষায় হতে হবে।
২. পরামর্শগুলো বাস্তবসম্মত এবং সহজ হতে হবে।
৩. উত্তরটি JSON ফরম্যাটে দাও যেখানে title, description এবং type ('success', 'warning', 'info') থাকবে।
`

// BuildPrompt renders the advice prompt. The output depends only on the
// summary figures and the RecentLimit most recent transactions.
func BuildPrompt(txs []core.Transaction, summary core.FinancialSummary) (string, error) {
	breakdown := summary.CategoryBreakdown
	if breakdown == nil {
		breakdown = map[string]float64{}
	}
	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return "", fmt.Errorf("marshal category breakdown: %w", err)
	}

	recent := services.Recent(txs, RecentLimit)
	rows := make([]promptTransaction, 0, len(recent))
	for _, tx := range recent {
		rows = append(rows, promptTransaction{
			Type:     tx.Type,
			Amount:   tx.Amount,
			Category: tx.Category,
			Date:     tx.Date.Format("2006-01-02"),
		})
	}
	recentJSON, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("marshal recent transactions: %w", err)
	}

	return fmt.Sprintf(promptTemplate,
		number(summary.Balance),
		number(summary.TotalIncome),
		number(summary.TotalExpenses),
		number(summary.PreviousMonthSavings),
		breakdownJSON,
		recentJSON,
	), nil
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseInsights decodes the model's JSON array, tolerating a surrounding
// markdown code fence. Unknown types are read as info and entries with
// neither title nor description are dropped. Empty text yields no insights.
func ParseInsights(text string) ([]core.Insight, error) {
	text = stripFence(strings.TrimSpace(text))
	if text == "" {
		return []core.Insight{}, nil
	}

	var raw []core.Insight
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, err
	}

	out := make([]core.Insight, 0, len(raw))
	for _, in := range raw {
		in.Title = strings.TrimSpace(in.Title)
		in.Description = strings.TrimSpace(in.Description)
		if in.Title == "" && in.Description == "" {
			continue
		}
		if !in.Type.IsValid() {
			in.Type = core.InsightInfo
		}
		out = append(out, in)
	}
	return out, nil
}

func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "json")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
