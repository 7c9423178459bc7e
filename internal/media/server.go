// Package media serves stored chat attachments over plain HTTP so they can be
// fronted by a CDN independently of the storefront API.
package media

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"aheyecare/internal/common"
	"aheyecare/internal/logging"
	"aheyecare/internal/storage"
)

type HTTPServer struct {
	store  storage.Storage
	router *mux.Router
}

func NewHTTPServer(store storage.Storage) *HTTPServer {
	s := &HTTPServer{store: store, router: mux.NewRouter()}

	// GET /media/{key}
	s.router.HandleFunc("/media/{key}", s.serveFile).Methods(http.MethodGet, http.MethodHead)
	s.router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	return s
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *HTTPServer) serveFile(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key != common.SanitizeFilename(key) {
		common.WriteError(w, common.NotFound("file not found"))
		return
	}

	body, err := s.store.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			common.WriteError(w, common.NotFound("file not found"))
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("key", key).Msg("failed to open media file")
		common.WriteError(w, err)
		return
	}
	defer body.Close()

	common.SetAttachmentHeaders(w.Header(), key)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, body); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("key", key).Msg("error streaming file")
	}
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "media"})
}
