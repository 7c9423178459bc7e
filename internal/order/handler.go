package order

import (
	"encoding/json"
	"net/http"

	"aheyecare/internal/cart"
	"aheyecare/internal/common"
	"aheyecare/internal/logging"
)

type Handler struct {
	svc       OrderService
	dashboard *DashboardService
}

func NewHandler(svc OrderService, dashboard *DashboardService) *Handler {
	return &Handler{svc: svc, dashboard: dashboard}
}

func (h *Handler) CheckoutSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context(), cart.ID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var in CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.WriteError(w, common.Validation("invalid request body"))
		return
	}

	o, err := h.svc.Checkout(r.Context(), cart.ID(r.Context()), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Uint("order_id", o.ID).Float64("total", o.Total).Msg("order placed")
	common.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard.Load(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if common.HTTPStatus(err) >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Msg("order request failed")
	}
	common.WriteError(w, err)
}
