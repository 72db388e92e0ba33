package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"bankweb/internal/domain"
)

// seedHistory opens two accounts and produces a mixed transaction log:
// 3 deposits and 1 withdrawal on ACC1, one transfer ACC1 -> ACC2.
func seedHistory(t *testing.T) (*QueryService, *LedgerService) {
	t.Helper()
	ledger, store := newLedger(t)
	ctx := context.Background()

	openAccount(t, ledger, "ACC1", "100.00")
	openAccount(t, ledger, "ACC2", "0")

	for _, amt := range []string{"10", "20", "30"} {
		if _, err := ledger.Deposit(ctx, "ACC1", amt); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := ledger.Withdraw(ctx, "ACC1", "5"); err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.Transfer(ctx, "ACC1", "ACC2", "50"); err != nil {
		t.Fatal(err)
	}

	return NewQueryService(store), ledger
}

func TestListNewestFirst(t *testing.T) {
	q, _ := seedHistory(t)

	page, err := q.List(context.Background(), QueryParams{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 6 {
		t.Fatalf("total=%d want=6", page.Total)
	}
	for i := 1; i < len(page.Transactions); i++ {
		prev, cur := page.Transactions[i-1], page.Transactions[i]
		if cur.CreatedAt.After(prev.CreatedAt) {
			t.Fatalf("not newest-first at %d: %v before %v", i, prev.CreatedAt, cur.CreatedAt)
		}
	}
	// The receipt on ACC2 is the last thing recorded.
	if page.Transactions[0].Type != domain.TxnReceived {
		t.Fatalf("first record type=%s want=RC", page.Transactions[0].Type)
	}
}

func TestListFilterByType(t *testing.T) {
	q, _ := seedHistory(t)

	page, err := q.List(context.Background(), QueryParams{Type: "DP"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 {
		t.Fatalf("total=%d want=3", page.Total)
	}
	for _, r := range page.Transactions {
		if r.Type != domain.TxnDeposit {
			t.Fatalf("type=%s want=DP", r.Type)
		}
	}
}

func TestListSearchMatchesAccountAndDescription(t *testing.T) {
	q, _ := seedHistory(t)
	ctx := context.Background()

	// Case-insensitive account number substring.
	page, err := q.List(ctx, QueryParams{Search: "acc2"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 {
		// The RC row on ACC2 plus the TR row described "Transfer to ACC2".
		t.Fatalf("total=%d want=2", page.Total)
	}

	// Description substring.
	page, err = q.List(ctx, QueryParams{Search: "received"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Transactions[0].Type != domain.TxnReceived {
		t.Fatalf("search by description unexpected: %+v", page)
	}
}

func TestListFilterComposition(t *testing.T) {
	q, _ := seedHistory(t)
	now := time.Now().UTC()

	// A window that certainly covers the seeded records combined with a
	// search narrows to the intersection.
	page, err := q.List(context.Background(), QueryParams{
		Search:   "ACC1",
		Type:     "WD",
		FromDate: now.AddDate(0, 0, -1).Format("2006-01-02"),
		ToDate:   now.AddDate(0, 0, 1).Format("2006-01-02"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Transactions[0].Type != domain.TxnWithdraw {
		t.Fatalf("composed filter unexpected: total=%d", page.Total)
	}
}

func TestListDateFiltersExcludeAndIgnoreMalformed(t *testing.T) {
	q, _ := seedHistory(t)
	ctx := context.Background()

	// Future lower bound excludes everything.
	page, err := q.List(ctx, QueryParams{FromDate: "2099-01-01"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 0 {
		t.Fatalf("total=%d want=0", page.Total)
	}

	// Ancient upper bound excludes everything.
	page, err = q.List(ctx, QueryParams{ToDate: "2000-01-01"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 0 {
		t.Fatalf("total=%d want=0", page.Total)
	}

	// Malformed dates are ignored, not an error.
	page, err = q.List(ctx, QueryParams{FromDate: "31/12/2099", ToDate: "bogus"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 6 {
		t.Fatalf("total=%d want=6", page.Total)
	}
}

func TestPaginationClamps(t *testing.T) {
	ledger, store := newLedger(t)
	ctx := context.Background()
	openAccount(t, ledger, "ACC1", "0")
	for i := 0; i < 25; i++ {
		if _, err := ledger.Deposit(ctx, "ACC1", "1.00"); err != nil {
			t.Fatal(err)
		}
	}
	q := NewQueryService(store)

	tests := []struct {
		page     string
		wantPage int
		wantLen  int
	}{
		{"", 1, 10},
		{"abc", 1, 10},
		{"0", 1, 10},
		{"-3", 1, 10},
		{"2", 2, 10},
		{"3", 3, 5},
		{"99", 3, 5},
	}
	for _, tc := range tests {
		got, err := q.List(ctx, QueryParams{Page: tc.page})
		if err != nil {
			t.Fatal(err)
		}
		if got.Page != tc.wantPage || len(got.Transactions) != tc.wantLen {
			t.Errorf("page=%q: got page=%d len=%d, want page=%d len=%d",
				tc.page, got.Page, len(got.Transactions), tc.wantPage, tc.wantLen)
		}
		if got.TotalPages != 3 {
			t.Errorf("page=%q: total_pages=%d want=3", tc.page, got.TotalPages)
		}
	}
}

func TestPaginationEmptyHistory(t *testing.T) {
	_, store := newLedger(t)
	q := NewQueryService(store)

	page, err := q.List(context.Background(), QueryParams{Page: "5"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Page != 1 || page.TotalPages != 1 || page.Total != 0 {
		t.Fatalf("empty history page unexpected: %+v", page)
	}
}

func TestExportCSV(t *testing.T) {
	q, _ := seedHistory(t)

	var buf bytes.Buffer
	if err := q.ExportCSV(context.Background(), QueryParams{Type: "DP"}, &buf); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines=%d want=4 (header + 3 deposits):\n%s", len(lines), buf.String())
	}
	if lines[0] != "Timestamp,Account,Owner,Type,Amount,Description" {
		t.Fatalf("header unexpected: %q", lines[0])
	}
	// Newest deposit first, amounts with two fraction digits, readable type.
	if !strings.Contains(lines[1], ",ACC1,") || !strings.Contains(lines[1], ",Deposit,30.00,") {
		t.Fatalf("first row unexpected: %q", lines[1])
	}
	// Timestamp formatted YYYY-MM-DD HH:MM:SS.
	fields := strings.SplitN(lines[1], ",", 2)
	if _, err := time.Parse("2006-01-02 15:04:05", fields[0]); err != nil {
		t.Fatalf("timestamp %q not in export layout: %v", fields[0], err)
	}
}

func TestExportIgnoresPagination(t *testing.T) {
	ledger, store := newLedger(t)
	ctx := context.Background()
	openAccount(t, ledger, "ACC1", "0")
	for i := 0; i < 15; i++ {
		if _, err := ledger.Deposit(ctx, "ACC1", "1.00"); err != nil {
			t.Fatal(err)
		}
	}
	q := NewQueryService(store)

	var buf bytes.Buffer
	if err := q.ExportCSV(ctx, QueryParams{Page: "2"}, &buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Count(buf.String(), "\n")
	if lines != 16 {
		t.Fatalf("csv lines=%d want=16 (header + all 15 rows)", lines)
	}
}

func TestExportFilename(t *testing.T) {
	at := time.Date(2026, 8, 30, 13, 45, 9, 0, time.UTC)
	want := fmt.Sprintf("transactions_%s.csv", "20260830_134509")
	if got := ExportFilename(at); got != want {
		t.Fatalf("filename=%q want=%q", got, want)
	}
}
