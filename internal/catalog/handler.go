package catalog

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"aheyecare/internal/common"
	"aheyecare/internal/logging"
)

type Handler struct {
	svc ProductService
}

func NewHandler(svc ProductService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Latest(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	detail, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// Create takes multipart fields name, description, price, product_type and image.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		common.WriteError(w, common.Validation("invalid form"))
		return
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		common.WriteError(w, common.Validation("price must be a number"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		common.WriteError(w, common.Validation("image is required"))
		return
	}
	defer file.Close()

	p, err := h.svc.Create(r.Context(), ProductInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       price,
		ProductType: r.FormValue("product_type"),
	}, file, header.Filename)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Frames(w http.ResponseWriter, r *http.Request) {
	frames, err := h.svc.Frames(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"frames": frames})
}

func productID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		return 0, common.Validation("invalid product id")
	}
	return uint(id), nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if common.HTTPStatus(err) >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Msg("catalog request failed")
	}
	common.WriteError(w, err)
}
