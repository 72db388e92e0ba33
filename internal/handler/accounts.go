package handler

import (
	"net/http"

	"bankweb/internal/middleware"
)

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	_, err := h.ledgerService.CreateAccount(r.Context(), user.ID,
		r.PostFormValue("account_number"),
		r.PostFormValue("balance"),
	)
	if err != nil {
		respondError(w, err)
		return
	}

	// The profile view shows the new account immediately.
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
