package handlers

import (
	"net/http"

	"medshop/internal/dberr"
	"medshop/internal/dto"
)

// CategoriesList returns all categories.
func (a *API) CategoriesList(w http.ResponseWriter, r *http.Request) {
	cs, err := a.categories.List(r.Context())
	if err != nil {
		a.fail(w, r, err, dberr.SourceQuery)
		return
	}
	writeJSON(w, http.StatusOK, dto.Categories(cs))
}

// CategoryGet returns one category.
func (a *API) CategoryGet(w http.ResponseWriter, r *http.Request) {
	id, msg := pathID(r)
	if msg != "" {
		invalid(w, msg)
		return
	}
	c, err := a.categories.FindByID(r.Context(), id)
	if err != nil {
		a.fail(w, r, err, dberr.SourceQuery)
		return
	}
	writeJSON(w, http.StatusOK, dto.Category(*c))
}
