package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bankweb/internal/config"
	"bankweb/internal/domain"
	"bankweb/internal/service"
)

type transactionJSON struct {
	Timestamp   string `json:"timestamp"`
	Account     string `json:"account"`
	Owner       string `json:"owner"`
	Type        string `json:"type"`
	TypeCode    string `json:"type_code"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

func toTransactionJSON(r domain.TransactionRecord) transactionJSON {
	return transactionJSON{
		Timestamp:   r.CreatedAt.Format(config.ExportTimeLayout),
		Account:     r.AccountNumber,
		Owner:       r.OwnerUsername,
		Type:        r.Type.Display(),
		TypeCode:    string(r.Type),
		Amount:      r.Amount.StringFixed(2),
		Description: r.Description,
	}
}

type historyResponse struct {
	Transactions []transactionJSON `json:"transactions"`
	Page         int               `json:"page"`
	TotalPages   int               `json:"total_pages"`
	Total        int               `json:"total"`
}

// Transactions serves the history view. With export=csv it streams the full
// filtered set as an attachment; otherwise it returns one page.
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := service.QueryParams{
		Search:   q.Get("q"),
		Type:     q.Get("txn_type"),
		FromDate: q.Get("from_date"),
		ToDate:   q.Get("to_date"),
		Page:     q.Get("page"),
	}

	if strings.EqualFold(strings.TrimSpace(q.Get("export")), "csv") {
		filename := service.ExportFilename(time.Now())
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if err := h.queryService.ExportCSV(r.Context(), params, w); err != nil {
			// Headers are already sent; the truncated body is all we
			// can signal.
			slog.Error("csv export failed", "error", err)
		}
		return
	}

	page, err := h.queryService.List(r.Context(), params)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := historyResponse{
		Transactions: []transactionJSON{},
		Page:         page.Page,
		TotalPages:   page.TotalPages,
		Total:        page.Total,
	}
	for _, t := range page.Transactions {
		resp.Transactions = append(resp.Transactions, toTransactionJSON(t))
	}
	respondJSON(w, http.StatusOK, resp)
}
