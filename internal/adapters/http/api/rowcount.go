package api

import (
	"net/http"
)

// RowCountHandler serves the row-count lookup.
type RowCountHandler struct {
	deps Dependencies
}

// NewRowCountHandler creates a new row-count handler.
func NewRowCountHandler(deps Dependencies) *RowCountHandler {
	return &RowCountHandler{deps: deps}
}

// HandleRowCount handles GET /sheets/row-count.
// Success: 200 {"success":true,"rowCount":N,"exceedsThreshold":bool}.
// Failure: 500 or 502 {"success":false,"error":"..."}.
func (h *RowCountHandler) HandleRowCount(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	res, err := h.deps.RowCount(r.Context())
	if err != nil {
		status, msg := errorStatus(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
