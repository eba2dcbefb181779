package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shopfront/internal/handler"
	"shopfront/internal/middleware"
	"shopfront/internal/session"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	sessions session.Provider,
	sessionTTL time.Duration,
	allowedOrigin string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Product routes
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			productHandler.GetByID(w, r)
			return
		}
		productHandler.GetAll(w, r)
	}
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Cart routes
	cartRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/cart" || r.URL.Path == "/api/cart/" {
			switch r.Method {
			case http.MethodGet:
				cartHandler.Get(w, r)
			case http.MethodDelete:
				cartHandler.Clear(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		if r.URL.Path == "/api/cart/items" || r.URL.Path == "/api/cart/items/" {
			if r.Method == http.MethodPost {
				cartHandler.AddItem(w, r)
				return
			}
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if productID, ok := strings.CutPrefix(r.URL.Path, "/api/cart/items/"); ok && productID != "" {
			switch r.Method {
			case http.MethodPut:
				cartHandler.UpdateQuantity(w, r, productID)
			case http.MethodDelete:
				cartHandler.RemoveItem(w, r, productID)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}
	mux.HandleFunc("/api/cart", cartRouteHandler)
	mux.HandleFunc("/api/cart/", cartRouteHandler)

	// Checkout stub
	mux.HandleFunc("/api/checkout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		cartHandler.Checkout(w, r)
	})

	// Apply middleware in order: Recovery -> Logging -> CORS -> Session
	var h http.Handler = mux
	h = middleware.WithSession(sessions, sessionTTL, logger)(h)
	h = middleware.CORS(allowedOrigin)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
