package handler

import (
	"net/http"
	"strconv"

	"coursemart/internal/model"
	"coursemart/internal/service"

	"github.com/rs/zerolog"
)

// AdminHandler serves the admin dashboard data.
type AdminHandler struct {
	service service.AdminService
	logger  zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(service service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("handler", "admin").Logger(),
	}
}

// Dashboard handles GET /admin/stats requests.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if dashboard.RecentOrders == nil {
		dashboard.RecentOrders = []model.OrderWithUser{}
	}
	if dashboard.PopularCourses == nil {
		dashboard.PopularCourses = []model.PopularCourse{}
	}

	writeJSON(w, http.StatusOK, dashboard)
}

// Users handles GET /admin/users requests.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if users == nil {
		users = []model.User{}
	}

	writeJSON(w, http.StatusOK, model.UsersResponse{Users: users})
}

// UserDetail handles GET /admin/users/{id} requests.
func (h *AdminHandler) UserDetail(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id", model.ErrUserNotFound)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	detail, err := h.service.UserDetail(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if detail.Orders == nil {
		detail.Orders = []model.UserOrder{}
	}

	writeJSON(w, http.StatusOK, detail)
}

// Orders handles GET /admin/orders requests.
func (h *AdminHandler) Orders(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	orders, err := h.service.RecentOrders(r.Context(), limit)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if orders == nil {
		orders = []model.OrderWithUser{}
	}

	writeJSON(w, http.StatusOK, model.AdminOrdersResponse{Orders: orders})
}

// queryLimit parses the optional limit query parameter; 0 means the default.
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, model.NewValidationError("limit must be a positive integer")
	}

	return limit, nil
}
