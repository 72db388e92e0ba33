package handler

import (
	"net/http"

	"bankweb/internal/middleware"
)

type profileResponse struct {
	Username           string            `json:"username"`
	Email              string            `json:"email"`
	FirstName          string            `json:"first_name"`
	LastName           string            `json:"last_name"`
	Accounts           []accountJSON     `json:"accounts"`
	RecentTransactions []transactionJSON `json:"recent_transactions"`
}

type accountJSON struct {
	AccountNumber string `json:"account_number"`
	Balance       string `json:"balance"`
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	profile, err := h.userService.Profile(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := profileResponse{
		Username:           profile.User.Username,
		Email:              profile.User.Email,
		FirstName:          profile.User.FirstName,
		LastName:           profile.User.LastName,
		Accounts:           []accountJSON{},
		RecentTransactions: []transactionJSON{},
	}
	for _, a := range profile.Accounts {
		resp.Accounts = append(resp.Accounts, accountJSON{
			AccountNumber: a.AccountNumber,
			Balance:       a.Balance.StringFixed(2),
		})
	}
	for _, t := range profile.RecentTransactions {
		resp.RecentTransactions = append(resp.RecentTransactions, toTransactionJSON(t))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	err := h.userService.UpdateProfile(r.Context(), user.ID,
		r.PostFormValue("first_name"),
		r.PostFormValue("last_name"),
		r.PostFormValue("email"),
	)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully."})
}
