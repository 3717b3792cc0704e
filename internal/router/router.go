package router

import (
	"encoding/json"
	"net/http"

	"coursemart/internal/handler"
	"coursemart/internal/middleware"
	"coursemart/internal/model"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers the router dispatches to.
type Handlers struct {
	Health         *handler.HealthHandler
	Auth           *handler.AuthHandler
	Course         *handler.CourseHandler
	Cart           *handler.CartHandler
	Order          *handler.OrderHandler
	Admin          *handler.AdminHandler
	Recommendation *handler.RecommendationHandler
}

// Options configures the middleware chain.
type Options struct {
	Verifier       middleware.TokenVerifier
	CookieName     string
	AllowedOrigins []string
	RateLimiter    *middleware.RateLimiter
	Production     bool
	Tracing        bool
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	authenticate := middleware.Authenticate(opts.Verifier, opts.CookieName, logger)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	userOrAdmin := middleware.RequireRole(model.RoleUser, model.RoleAdmin)

	// Health check endpoint (no authentication required)
	r.HandleFunc("/health", h.Health.Check).Methods(http.MethodGet)

	authRoutes := r.PathPrefix("/auth").Subrouter()
	authRoutes.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	authRoutes.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	authRoutes.HandleFunc("/logout", h.Auth.Logout).Methods(http.MethodPost)
	authRoutes.Handle("/me", authenticate(http.HandlerFunc(h.Auth.Me))).Methods(http.MethodGet)

	// Catalogue reads are public; writes require an admin.
	r.HandleFunc("/courses", h.Course.List).Methods(http.MethodGet)
	r.HandleFunc("/courses/{id}", h.Course.GetByID).Methods(http.MethodGet)
	r.Handle("/courses", chain(h.Course.Create, authenticate, adminOnly)).Methods(http.MethodPost)
	r.Handle("/courses/{id}", chain(h.Course.Update, authenticate, adminOnly)).Methods(http.MethodPut)
	r.Handle("/courses/{id}", chain(h.Course.Delete, authenticate, adminOnly)).Methods(http.MethodDelete)

	shop := r.NewRoute().Subrouter()
	shop.Use(authenticate, userOrAdmin)
	shop.HandleFunc("/cart", h.Cart.Get).Methods(http.MethodGet)
	shop.HandleFunc("/cart", h.Cart.Add).Methods(http.MethodPost)
	shop.HandleFunc("/cart/{itemId}", h.Cart.Update).Methods(http.MethodPut)
	shop.HandleFunc("/cart/{itemId}", h.Cart.Remove).Methods(http.MethodDelete)
	shop.HandleFunc("/checkout", h.Order.Checkout).Methods(http.MethodPost)
	shop.HandleFunc("/orders", h.Order.List).Methods(http.MethodGet)
	shop.HandleFunc("/orders/{id}", h.Order.GetByID).Methods(http.MethodGet)
	shop.HandleFunc("/recommendations", h.Recommendation.List).Methods(http.MethodGet)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(authenticate, adminOnly)
	admin.HandleFunc("/stats", h.Admin.Dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/users", h.Admin.Users).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", h.Admin.UserDetail).Methods(http.MethodGet)
	admin.HandleFunc("/orders", h.Admin.Orders).Methods(http.MethodGet)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> SecurityHeaders -> CORS -> RateLimit
	var handler http.Handler = r
	if opts.RateLimiter != nil {
		handler = opts.RateLimiter.Middleware(logger)(handler)
	}
	handler = middleware.CORS(opts.AllowedOrigins)(handler)
	handler = middleware.SecurityHeaders(opts.Production)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(logger)(handler)
	if opts.Tracing {
		handler = middleware.Tracing("coursemart")(handler)
	}

	return handler
}

func chain(fn http.HandlerFunc, mws ...func(http.Handler) http.Handler) http.Handler {
	var h http.Handler = fn
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusNotFound, model.ErrCodeNotFound, "Route not found")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
}

func writeStatus(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: code, Message: message})
}
