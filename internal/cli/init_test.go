package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zen/internal/config"
	"zen/internal/core"
	zlog "zen/internal/log"
)

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&buf, &config.Config{LogLevel: "loud", LogFormat: "json"}, zlog.ComponentCLI)

	logger.Info("ready")
	out := buf.String()
	assert.Contains(t, out, `"msg":"Unknown log level, using info"`)
	assert.Contains(t, out, `"component":"cli"`)
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestLoadAndValidateConfig(t *testing.T) {
	for _, key := range []string{"AMQP_URL", "GOOGLE_SPREADSHEET_ID", "HISTORY_MONTHS", "LOG_LEVEL", "LOG_FORMAT", "CURRENCY_LOCALE"} {
		t.Setenv(key, "")
	}
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("TIMEZONE", "UTC")
	cfg, err := LoadAndValidateConfig()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DataBackend)

	t.Setenv("HISTORY_MONTHS", "99")
	_, err = LoadAndValidateConfig()
	assert.ErrorContains(t, err, "invalid history months 99")
}

func TestOpenBackendAndLedger(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		DataBackend:   "sqlite",
		SQLiteDBPath:  filepath.Join(t.TempDir(), "zen.db"),
		HistoryMonths: 3,
		Timezone:      "UTC",
	}

	res, err := OpenBackend(ctx, zlog.Default(), cfg)
	require.NoError(t, err)
	defer res.Cleanup()

	ledger := NewLedger(res, cfg)
	_, err = ledger.Add(ctx, core.NewTransactionParams{Type: core.Expense, Amount: "40", Category: core.CategoryFood})
	require.NoError(t, err)
	assert.Len(t, ledger.Summary().MonthlyHistory, 3)

	_, err = OpenBackend(ctx, zlog.Default(), &config.Config{DataBackend: "postgres"})
	assert.Error(t, err)
}

func TestGracefulShutdown_Cancel(t *testing.T) {
	var cleaned atomic.Bool
	ctx, stop, done := GracefulShutdown(zlog.Default(), time.Second, func() { cleaned.Store(true) })

	stop()
	WaitForShutdown(ctx, done)
	assert.True(t, cleaned.Load())
}
