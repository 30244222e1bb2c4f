package handlers

import (
	"net/http"

	"medshop/internal/dberr"
	"medshop/internal/dto"
)

// UsersList returns all users with their order summaries.
func (a *API) UsersList(w http.ResponseWriter, r *http.Request) {
	us, err := a.users.List(r.Context())
	if err != nil {
		a.fail(w, r, err, dberr.SourceQuery)
		return
	}
	writeJSON(w, http.StatusOK, dto.Users(us))
}

// UserGet returns one user with their order summaries.
func (a *API) UserGet(w http.ResponseWriter, r *http.Request) {
	id, msg := pathID(r)
	if msg != "" {
		invalid(w, msg)
		return
	}
	u, err := a.users.FindByID(r.Context(), id)
	if err != nil {
		a.fail(w, r, err, dberr.SourceQuery)
		return
	}
	writeJSON(w, http.StatusOK, dto.User(*u))
}
