package service

import (
	"context"
	"fmt"
	"time"

	"coursemart/internal/model"
	"coursemart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	logger    zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		logger:    logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout snapshots the cart, records the order and clears the cart in one
// transaction that holds the cart row lock. Either all of it commits or none of it does.
func (s *checkoutService) Checkout(ctx context.Context, userID uuid.UUID) (*model.Order, error) {
	cartID, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}

	if cartID == nil {
		s.logger.Debug().Str("user_id", userID.String()).Msg("checkout without cart")
		return nil, model.ErrCartNotFound
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.cartRepo.LockCart(ctx, tx, *cartID); err != nil {
		if _, ok := model.AsDomainError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}

	lines, err := s.cartRepo.LinesTx(ctx, tx, *cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot cart: %w", err)
	}

	if len(lines) == 0 {
		err = model.ErrCartEmpty
		return nil, err
	}

	order := &model.Order{
		ID:          uuid.New(),
		UserID:      userID,
		TotalAmount: model.SumLines(lines),
		Status:      model.OrderStatusCompleted,
		CreatedAt:   time.Now().UTC(),
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	orderItems := make([]model.OrderItem, len(lines))
	for i, line := range lines {
		orderItems[i] = model.OrderItem{
			ID:       uuid.New(),
			OrderID:  order.ID,
			CourseID: line.CourseID,
			Title:    line.Title,
			Price:    line.Price,
			Quantity: line.Quantity,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if _, err = s.cartRepo.ClearItems(ctx, tx, *cartID); err != nil {
		s.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to clear cart")
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Int("item_count", len(orderItems)).
		Str("total", order.TotalAmount.StringFixed(2)).
		Msg("order placed")

	return order, nil
}

func (s *checkoutService) ListOrders(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *checkoutService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, []model.OrderItem, error) {
	order, items, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get order: %w", err)
	}

	// Another user's order is reported as absent.
	if order == nil || order.UserID != userID {
		return nil, nil, model.ErrOrderNotFound
	}

	return order, items, nil
}
