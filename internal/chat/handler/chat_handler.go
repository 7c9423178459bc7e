// Package handler exposes the chat relay over HTTP and websockets.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"aheyecare/internal/chat"
	"aheyecare/internal/chat/repository"
	"aheyecare/internal/chat/service"
	"aheyecare/internal/common"
	"aheyecare/internal/logging"
	"aheyecare/internal/storage"
)

type ChatHandler struct {
	svc            *service.ChatService
	store          storage.Storage
	maxUploadBytes int64
}

func NewChatHandler(svc *service.ChatService, store storage.Storage, maxUploadBytes int64) *ChatHandler {
	return &ChatHandler{svc: svc, store: store, maxUploadBytes: maxUploadBytes}
}

type postMessageRequest struct {
	Room    string `json:"room"`
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// ListMessages serves GET /api/v1/chat/messages?order=asc|desc&room=.
// The room defaults to main; the admin room needs the admin gate.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	order, err := repository.ParseOrder(r.URL.Query().Get("order"))
	if err != nil {
		common.WriteError(w, err)
		return
	}

	room := strings.TrimSpace(r.URL.Query().Get("room"))
	if room == "" {
		room = chat.MainRoom
	}
	if room == chat.AdminRoom && !common.IsAdmin(r.Context()) {
		common.WriteError(w, common.Unauthorized("admin access required"))
		return
	}

	messages, err := h.svc.ListMessages(r.Context(), order, room)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// AdminListMessages serves the global log across rooms, newest first unless
// order says otherwise.
func (h *ChatHandler) AdminListMessages(w http.ResponseWriter, r *http.Request) {
	order := repository.OrderDesc
	if q := r.URL.Query().Get("order"); q != "" {
		parsed, err := repository.ParseOrder(q)
		if err != nil {
			common.WriteError(w, err)
			return
		}
		order = parsed
	}

	messages, err := h.svc.ListMessages(r.Context(), order, r.URL.Query().Get("room"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, common.Validation("invalid request body"))
		return
	}
	if req.Room == "" {
		req.Room = chat.MainRoom
	}

	msg, err := h.svc.PostMessage(r.Context(), req.Room, req.Sender, req.Message)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, msg)
}

// AdminSend posts as Admin to the admin room.
func (h *ChatHandler) AdminSend(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		common.WriteError(w, common.Validation("message required"))
		return
	}

	msg, err := h.svc.PostMessage(r.Context(), chat.AdminRoom, chat.AdminSender, req.Message)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, msg)
}

// Upload accepts multipart form fields file, room and sender.
func (h *ChatHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.WriteError(w, common.Validation(fmt.Sprintf("file exceeds %d bytes", tooLarge.Limit)))
			return
		}
		common.WriteError(w, common.Validation("file is required"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		common.WriteError(w, common.Validation("file is required"))
		return
	}
	defer file.Close()

	room := r.FormValue("room")
	if room == "" {
		room = chat.MainRoom
	}

	msg, err := h.svc.StoreAttachment(r.Context(), room, r.FormValue("sender"), file, header.Filename)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, msg)
}

// ClearMessages deletes the whole chat log. Closing the admin chat session
// triggers it.
func (h *ChatHandler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.ClearAll(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeUpload streams GET /uploads/{key}.
func (h *ChatHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	rc, err := h.store.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			common.WriteError(w, common.NotFound("file not found"))
			return
		}
		h.fail(w, r, err)
		return
	}
	defer rc.Close()

	common.SetAttachmentHeaders(w.Header(), key)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := io.Copy(w, rc); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("key", key).Msg("error streaming upload")
	}
}

func (h *ChatHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if common.HTTPStatus(err) >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Msg("chat request failed")
	}
	common.WriteError(w, err)
}
