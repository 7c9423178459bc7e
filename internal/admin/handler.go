package admin

import (
	"encoding/json"
	"net/http"

	"aheyecare/internal/common"
	"aheyecare/internal/logging"
)

// Handler serves admin login and logout.
type Handler struct {
	svc          AdminService
	secureCookie bool
}

func NewHandler(svc AdminService, secureCookie bool) *Handler {
	return &Handler{svc: svc, secureCookie: secureCookie}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, common.Validation("invalid request body"))
		return
	}

	session, err := h.svc.Login(r.Context(), req.Username, req.Password, req.Remember)
	if err != nil {
		if common.HTTPStatus(err) >= http.StatusInternalServerError {
			logging.Ctx(r.Context()).Error().Err(err).Msg("admin login error")
		}
		common.WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.AdminCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	common.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.AdminCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	common.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
