package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"bankweb/internal/config"
	"bankweb/internal/domain"
	"bankweb/internal/storage"
)

// QueryService serves the transaction history: filtering, pagination and
// CSV export. It is read-only.
type QueryService struct {
	store storage.Ledger
}

func NewQueryService(store storage.Ledger) *QueryService {
	return &QueryService{store: store}
}

// QueryParams carries the raw, unvalidated request parameters. Malformed
// dates are ignored rather than rejected; a malformed page falls back to
// the first page.
type QueryParams struct {
	Search   string
	Type     string
	FromDate string
	ToDate   string
	Page     string
}

// HistoryPage is one page of the filtered transaction history.
type HistoryPage struct {
	Transactions []domain.TransactionRecord
	Page         int
	TotalPages   int
	Total        int
}

// List returns one page of the filtered history, newest first. Out-of-range
// page numbers are clamped: non-numeric or < 1 becomes the first page, past
// the end becomes the last page.
func (s *QueryService) List(ctx context.Context, p QueryParams) (*HistoryPage, error) {
	records, err := s.store.ListTransactions(ctx, buildFilter(p))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	total := len(records)
	totalPages := (total + config.TransactionsPerPage - 1) / config.TransactionsPerPage
	if totalPages < 1 {
		totalPages = 1
	}

	page, err := strconv.Atoi(strings.TrimSpace(p.Page))
	if err != nil || page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * config.TransactionsPerPage
	end := start + config.TransactionsPerPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &HistoryPage{
		Transactions: records[start:end],
		Page:         page,
		TotalPages:   totalPages,
		Total:        total,
	}, nil
}

// ExportCSV writes the full filtered history (pagination ignored) as CSV.
func (s *QueryService) ExportCSV(ctx context.Context, p QueryParams, w io.Writer) error {
	records, err := s.store.ListTransactions(ctx, buildFilter(p))
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Timestamp", "Account", "Owner", "Type", "Amount", "Description"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.CreatedAt.Format(config.ExportTimeLayout),
			r.AccountNumber,
			r.OwnerUsername,
			r.Type.Display(),
			r.Amount.StringFixed(2),
			r.Description,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename names the CSV attachment after the moment of export.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("transactions_%s.csv", now.Format(config.ExportFilenameLayout))
}

func buildFilter(p QueryParams) storage.TxnFilter {
	f := storage.TxnFilter{
		Search: strings.TrimSpace(p.Search),
		Type:   domain.TxnType(strings.TrimSpace(p.Type)),
	}

	// Bad date strings are silently dropped, matching the documented
	// filter contract.
	if raw := strings.TrimSpace(p.FromDate); raw != "" {
		if t, err := time.Parse(config.FilterDateLayout, raw); err == nil {
			f.From = &t
		}
	}
	if raw := strings.TrimSpace(p.ToDate); raw != "" {
		if t, err := time.Parse(config.FilterDateLayout, raw); err == nil {
			// Inclusive calendar-date upper bound.
			end := t.AddDate(0, 0, 1)
			f.To = &end
		}
	}
	return f
}
