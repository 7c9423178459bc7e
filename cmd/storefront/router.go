package main

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"aheyecare/internal/admin"
	"aheyecare/internal/cart"
	"aheyecare/internal/catalog"
	"aheyecare/internal/common"
	"aheyecare/internal/logging"
	"aheyecare/internal/wire"
)

// setupRouter configures HTTP routes. CORS wraps the router so preflight
// requests are answered before route matching.
func setupRouter(app *wire.Application) http.Handler {
	cfg := app.Config
	secure := cfg.Server.Environment == "production"

	router := mux.NewRouter()
	router.Use(logging.HTTPMiddleware(*logging.L()))
	router.Use(admin.Identify(app.Admin))

	router.Handle("/ws", app.WS).Methods(http.MethodGet)
	router.HandleFunc("/uploads/{key}", app.ChatHandler.ServeUpload).Methods(http.MethodGet)
	router.PathPrefix(catalog.ImageURLPrefix).Handler(
		http.StripPrefix(catalog.ImageURLPrefix, http.FileServer(http.Dir(cfg.Catalog.ImageDir))),
	).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(cart.Middleware(cfg.Catalog.CartTTL, secure))

	api.HandleFunc("/health", healthCheckHandler(app)).Methods(http.MethodGet)

	// chat
	api.HandleFunc("/chat/messages", app.ChatHandler.ListMessages).Methods(http.MethodGet)
	api.HandleFunc("/chat/messages", app.ChatHandler.PostMessage).Methods(http.MethodPost)
	api.HandleFunc("/chat/upload", app.ChatHandler.Upload).Methods(http.MethodPost)

	// catalog
	api.HandleFunc("/products", app.Catalog.List).Methods(http.MethodGet)
	api.HandleFunc("/products/latest", app.Catalog.Latest).Methods(http.MethodGet)
	api.HandleFunc("/products/search", app.Catalog.Search).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", app.Catalog.Get).Methods(http.MethodGet)
	api.HandleFunc("/tryon/frames", app.Catalog.Frames).Methods(http.MethodGet)

	// cart and checkout
	api.HandleFunc("/cart", app.Cart.Get).Methods(http.MethodGet)
	api.HandleFunc("/cart/{productID}", app.Cart.Add).Methods(http.MethodPost)
	api.HandleFunc("/cart/{productID}", app.Cart.Remove).Methods(http.MethodDelete)
	api.HandleFunc("/checkout", app.Orders.CheckoutSummary).Methods(http.MethodGet)
	api.HandleFunc("/checkout", app.Orders.Checkout).Methods(http.MethodPost)

	api.HandleFunc("/contact", app.Contact.Submit).Methods(http.MethodPost)

	api.HandleFunc("/admin/login", app.AdminHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/admin/logout", app.AdminHandler.Logout).Methods(http.MethodPost)

	adminAPI := api.PathPrefix("/admin").Subrouter()
	adminAPI.Use(admin.RequireAdmin)
	adminAPI.HandleFunc("/dashboard", app.Orders.Dashboard).Methods(http.MethodGet)
	adminAPI.HandleFunc("/products", app.Catalog.Create).Methods(http.MethodPost)
	adminAPI.HandleFunc("/products/{id:[0-9]+}", app.Catalog.Delete).Methods(http.MethodDelete)
	adminAPI.HandleFunc("/chat/messages", app.ChatHandler.AdminListMessages).Methods(http.MethodGet)
	adminAPI.HandleFunc("/chat/messages", app.ChatHandler.ClearMessages).Methods(http.MethodDelete)
	adminAPI.HandleFunc("/chat/send", app.ChatHandler.AdminSend).Methods(http.MethodPost)

	return corsMiddleware(cfg.Server.AllowedOrigins)(router)
}

// corsMiddleware allows every origin when none are configured.
func corsMiddleware(allowed []string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" && originAllowed(allowed, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

func healthCheckHandler(app *wire.Application) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := app.Health.Check(r.Context()); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("health check failed")
			common.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "down"})
			return
		}
		common.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy", "database": "up"})
	}
}
