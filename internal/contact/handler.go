package contact

import (
	"encoding/json"
	"net/http"

	"aheyecare/internal/common"
	"aheyecare/internal/logging"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.WriteError(w, common.Validation("invalid request body"))
		return
	}

	m, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		if common.HTTPStatus(err) >= http.StatusInternalServerError {
			logging.Ctx(r.Context()).Error().Err(err).Msg("contact submit failed")
		}
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, m)
}
