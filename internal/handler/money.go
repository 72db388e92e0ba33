package handler

import (
	"net/http"

	"github.com/shopspring/decimal"
)

type balanceResponse struct {
	Message string `json:"message"`
	Balance string `json:"balance"`
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledgerService.Deposit(r.Context(),
		r.PostFormValue("account"),
		r.PostFormValue("amount"),
	)
	if err != nil {
		respondError(w, err)
		return
	}
	respondBalance(w, "Deposit successful. New balance: ", balance)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledgerService.Withdraw(r.Context(),
		r.PostFormValue("account"),
		r.PostFormValue("amount"),
	)
	if err != nil {
		respondError(w, err)
		return
	}
	respondBalance(w, "Withdraw successful. New balance: ", balance)
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledgerService.Transfer(r.Context(),
		r.PostFormValue("from"),
		r.PostFormValue("to"),
		r.PostFormValue("amount"),
	)
	if err != nil {
		respondError(w, err)
		return
	}
	respondBalance(w, "Transfer successful. Sender new balance: ", balance)
}

func respondBalance(w http.ResponseWriter, prefix string, balance decimal.Decimal) {
	fixed := balance.StringFixed(2)
	respondJSON(w, http.StatusOK, balanceResponse{
		Message: prefix + fixed,
		Balance: fixed,
	})
}
