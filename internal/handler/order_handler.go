package handler

import (
	"net/http"

	"coursemart/internal/model"
	"coursemart/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles checkout and order history requests.
type OrderHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.CheckoutService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Checkout handles POST /checkout requests.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	order, err := h.service.Checkout(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.CheckoutResponse{
		Success: true,
		Order: model.OrderSummary{
			ID:    order.ID,
			Total: order.TotalAmount,
		},
	})
}

// List handles GET /orders requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	orders, err := h.service.ListOrders(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if orders == nil {
		orders = []model.Order{}
	}

	writeJSON(w, http.StatusOK, model.OrdersResponse{Orders: orders})
}

// GetByID handles GET /orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	orderID, err := pathID(r, "id", model.ErrOrderNotFound)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	order, items, err := h.service.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if items == nil {
		items = []model.OrderItem{}
	}

	writeJSON(w, http.StatusOK, model.OrderDetailResponse{Order: *order, Items: items})
}
