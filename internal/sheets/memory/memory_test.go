package memory

import (
	"context"
	"testing"
	"time"

	"zen/internal/core"
)

func TestStoreAppendTransaction(t *testing.T) {
	ctx := context.Background()
	s := New()
	tx := core.Transaction{ID: "a", Type: core.Expense, Amount: 1.23, Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	ref, err := s.AppendTransaction(ctx, tx)
	if err != nil || ref != "mem:tx:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}

	// redelivery keeps a single row
	ref, err = s.AppendTransaction(ctx, tx)
	if err != nil || ref != "mem:tx:1" || len(s.Transactions()) != 1 {
		t.Fatalf("expected idempotent append: ref=%q err=%v rows=%d", ref, err, len(s.Transactions()))
	}

	if _, err := s.AppendTransaction(ctx, core.Transaction{ID: "bad"}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestStoreRemoveTransaction(t *testing.T) {
	ctx := context.Background()
	s := New()
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.AppendTransaction(ctx, core.Transaction{ID: id, Type: core.Income, Amount: 1, Date: date}); err != nil {
			t.Fatal(err)
		}
	}

	found, err := s.RemoveTransaction(ctx, "b")
	if err != nil || !found {
		t.Fatalf("expected removal, found=%v err=%v", found, err)
	}
	found, _ = s.RemoveTransaction(ctx, "b")
	if found {
		t.Fatal("second removal should report not found")
	}
	if got := s.Transactions(); len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestStoreAppendArchive(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.AppendArchive(ctx, core.MonthlyArchive{}); err == nil {
		t.Fatal("expected error for archive without id")
	}
	ref, err := s.AppendArchive(ctx, core.MonthlyArchive{ID: "x", Year: 2025, Month: 3})
	if err != nil || ref != "mem:archive:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}
	if len(s.Archives()) != 1 {
		t.Fatalf("expected one archive row")
	}
}
