package handler

import (
	"net/http"

	"coursemart/internal/model"
	"coursemart/internal/service"
	"coursemart/internal/validate"

	"github.com/rs/zerolog"
)

// CartHandler handles requests on the caller's cart.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if cart.Items == nil {
		cart.Items = []model.CartLine{}
	}

	writeJSON(w, http.StatusOK, model.CartResponse{Cart: *cart})
}

// Add handles POST /cart requests. A missing quantity adds one.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.AddToCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := validate.Check(&req); err != nil {
		writeError(w, r, model.NewValidationError(err.Error()), h.logger)
		return
	}

	// An unparseable course id can never name an available course.
	courseID, err := validate.ParseID(req.CourseID)
	if err != nil {
		writeError(w, r, model.ErrCourseUnavailable, h.logger)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	if err := h.service.AddItem(r.Context(), userID, courseID, quantity); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, successResponse())
}

// Update handles PUT /cart/{itemId} requests.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.UpdateCartItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if req.Quantity == nil || !model.ValidQuantity(*req.Quantity) {
		writeError(w, r, model.ErrInvalidQuantity, h.logger)
		return
	}

	itemID, err := pathID(r, "itemId", model.ErrCartItemNotFound)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.service.UpdateQuantity(r.Context(), userID, itemID, *req.Quantity); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, successResponse())
}

// Remove handles DELETE /cart/{itemId} requests.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	itemID, err := pathID(r, "itemId", model.ErrCartItemNotFound)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.service.RemoveItem(r.Context(), userID, itemID); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, successResponse())
}
