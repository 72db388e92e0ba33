package handler

import (
	"net/http"
)

type authResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Register(r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("email"),
		r.PostFormValue("password"),
		r.PostFormValue("confirm"),
	)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, authResponse{Token: token, Username: user.Username})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Login(r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("password"),
	)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Token: token, Username: user.Username})
}
