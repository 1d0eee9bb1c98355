package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"zen/internal/core"
)

func TestAppendTransaction_StoresFormulaTextVerbatim(t *testing.T) {
	var (
		inputOption string
		body        gsheet.ValueRange
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !strings.HasSuffix(r.URL.Path, ":append") {
			io.WriteString(w, `{"values":[]}`)
			return
		}
		inputOption = r.URL.Query().Get("valueInputOption")
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode append body: %v", err)
		}
		io.WriteString(w, `{"updates":{"updatedRange":"Transactions!A1:H2"}}`)
	}))
	defer srv.Close()

	ctx := context.Background()
	svc, err := gsheet.NewService(ctx,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	c := &Client{svc: svc, spreadsheetID: "sheet-1", transactionsSheet: "Transactions", archivesSheet: "Archives"}

	tx := core.Transaction{
		ID:       "t1",
		Type:     core.Expense,
		Amount:   20,
		Category: core.CategoryFood,
		Date:     time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		Note:     `=HYPERLINK("http://example.com")`,
	}

	ref, err := c.AppendTransaction(ctx, tx)
	if err != nil {
		t.Fatalf("AppendTransaction: %v", err)
	}
	if ref != "Transactions!A1:H2" {
		t.Errorf("ref = %q", ref)
	}
	if inputOption != "RAW" {
		t.Errorf("valueInputOption = %q, want RAW", inputOption)
	}
	if len(body.Values) != 2 {
		t.Fatalf("appended %d rows, want header and row", len(body.Values))
	}
	if got := body.Values[1][6]; got != tx.Note {
		t.Errorf("note cell = %v, want %q", got, tx.Note)
	}
}
