package cart

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"aheyecare/internal/common"
	"aheyecare/internal/logging"
)

type Handler struct {
	svc CartService
}

func NewHandler(svc CartService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context(), ID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	summary, err := h.svc.Add(r.Context(), ID(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	summary, err := h.svc.Remove(r.Context(), ID(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, summary)
}

func productID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["productID"], 10, 64)
	if err != nil || id == 0 {
		return 0, common.Validation("invalid product id")
	}
	return uint(id), nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if common.HTTPStatus(err) >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Msg("cart request failed")
	}
	common.WriteError(w, err)
}
