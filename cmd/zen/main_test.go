package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zen/internal/advice"
	"zen/internal/core"
)

// testEnv points every command at a fresh SQLite ledger without a broker,
// a spreadsheet or an API key.
func testEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AMQP_URL", "GOOGLE_SPREADSHEET_ID", "GEMINI_API_KEY", "API_KEY",
		"HISTORY_MONTHS", "RECURRING_INTERVAL", "ADVICE_CACHE_TTL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(t.TempDir(), "zen.db"))
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("CURRENCY_LOCALE", "en-US")
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := &app{}
	root := newRootCmd(a)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	require.NoError(t, a.close())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "zen %s", strings.Join(args, " "))
	return out
}

func TestAddListDelete(t *testing.T) {
	testEnv(t)

	out := mustRun(t, "add", "expense", "250.5", "-c", core.CategoryFood, "-n", "বাজার", "-d", "2025-03-05")
	assert.Contains(t, out, "৳250.50")
	mustRun(t, "add", "income", "30000", "-d", "2025-03-01")

	out = mustRun(t, "list")
	assert.Contains(t, out, "বাজার")
	assert.Contains(t, out, core.CategorySalary, "income defaults to salary")

	out = mustRun(t, "list", "--type", "income")
	assert.NotContains(t, out, "বাজার")

	out = mustRun(t, "list", "-q", "বাজ")
	assert.Contains(t, out, "বাজার")

	ids := idsFrom(t, mustRun(t, "list", "--type", "expense"))
	require.Len(t, ids, 1)
	mustRun(t, "delete", ids[0])
	assert.NotContains(t, mustRun(t, "list"), "বাজার")

	_, err := run(t, "delete", "missing")
	assert.Error(t, err)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	testEnv(t)

	_, err := run(t, "add", "expense", "--", "-5")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = run(t, "add", "expense", "10", "-d", "05/03/2025")
	assert.ErrorContains(t, err, "invalid date")

	_, err = run(t, "list", "--type", "transfer")
	assert.Error(t, err)
}

func TestBudgetAndSummary(t *testing.T) {
	testEnv(t)

	mustRun(t, "add", "expense", "300", "-c", core.CategoryFood)
	mustRun(t, "budget", "set", core.CategoryFood, "200")

	out := mustRun(t, "budget", "list")
	assert.Contains(t, out, "৳300 / ৳200")

	out = mustRun(t, "summary")
	assert.Contains(t, out, core.CategoryFood)

	mustRun(t, "budget", "set", core.CategoryFood, "0")
	assert.NotContains(t, mustRun(t, "budget", "list"), "৳200")

	_, err := run(t, "budget", "set", core.CategoryFood, "lots")
	assert.Error(t, err)
}

func TestColor(t *testing.T) {
	testEnv(t)

	mustRun(t, "color", "set", core.CategoryFood, "#ABCDEF")
	_, err := run(t, "color", "set", core.CategoryFood, "red")
	assert.Error(t, err)
	mustRun(t, "color", "reset")
}

func TestArchive(t *testing.T) {
	testEnv(t)

	_, err := run(t, "archive")
	assert.Error(t, err, "empty ledger cannot be archived")

	mustRun(t, "add", "income", "1000")
	mustRun(t, "add", "expense", "400")
	out := mustRun(t, "archive")
	assert.Contains(t, out, "৳600")

	assert.Contains(t, mustRun(t, "list"), "কোনো লেনদেন নেই")
	out = mustRun(t, "archives")
	assert.Contains(t, out, "৳1,000")
}

func TestRecurring(t *testing.T) {
	testEnv(t)

	mustRun(t, "add", "expense", "15000", "-c", core.CategoryRent, "-d", "2000-01-01", "--recurring")

	out := mustRun(t, "recurring")
	assert.Contains(t, out, "1 টি", "the template is materialized on the next load")
	assert.Contains(t, out, "2000-01-01")

	out = mustRun(t, "list", "-c", core.CategoryRent)
	assert.Contains(t, out, "[Auto:")
	assert.Equal(t, 2, strings.Count(out, "৳15,000"))
}

func TestAdviseWithoutKey(t *testing.T) {
	testEnv(t)

	mustRun(t, "add", "expense", "40")
	out := mustRun(t, "advise")
	assert.Contains(t, out, advice.InsightUnconfigured.Title)

	out = mustRun(t, "dashboard")
	assert.Contains(t, out, advice.InsightUnconfigured.Title)
}

func TestInvalidConfig(t *testing.T) {
	testEnv(t)
	t.Setenv("HISTORY_MONTHS", "100")

	_, err := run(t, "summary")
	assert.ErrorContains(t, err, "configuration validation failed")
}

// idsFrom extracts the id column, the last field of every data row.
func idsFrom(t *testing.T, out string) []string {
	t.Helper()
	var ids []string
	for i, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		if i == 0 || len(fields) == 0 {
			continue
		}
		ids = append(ids, fields[len(fields)-1])
	}
	return ids
}
