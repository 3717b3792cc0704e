package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"coursemart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func checkoutLines() []model.CartLine {
	return []model.CartLine{
		{ID: uuid.New(), CourseID: uuid.New(), Title: "Go Basics", Price: decimal.RequireFromString("10.00"), Quantity: 2},
		{ID: uuid.New(), CourseID: uuid.New(), Title: "SQL", Price: decimal.RequireFromString("5.00"), Quantity: 1},
	}
}

func TestCheckoutService_Checkout_Success(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cartID := uuid.New()
	lines := checkoutLines()

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	mockTx := new(MockTx)
	service := NewCheckoutService(orderRepo, cartRepo, zerolog.Nop())

	var createdOrder *model.Order
	var createdItems []model.OrderItem

	cartRepo.On("FindByUserID", ctx, userID).Return(&cartID, nil)
	orderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	cartRepo.On("LockCart", ctx, mockTx, cartID).Return(nil)
	cartRepo.On("LinesTx", ctx, mockTx, cartID).Return(lines, nil)
	orderRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) { createdOrder = args.Get(2).(*model.Order) }).
		Return(nil)
	orderRepo.On("CreateOrderItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).
		Run(func(args mock.Arguments) { createdItems = args.Get(2).([]model.OrderItem) }).
		Return(nil)
	cartRepo.On("ClearItems", ctx, mockTx, cartID).Return(int64(2), nil)
	mockTx.On("Commit", ctx).Return(nil)

	order, err := service.Checkout(ctx, userID)

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "25.00", order.TotalAmount.StringFixed(2))
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, model.OrderStatusCompleted, order.Status)
	assert.WithinDuration(t, time.Now(), order.CreatedAt, time.Minute)

	require.Same(t, order, createdOrder)
	require.Len(t, createdItems, 2)
	for i, item := range createdItems {
		assert.Equal(t, order.ID, item.OrderID)
		assert.Equal(t, lines[i].CourseID, item.CourseID)
		assert.True(t, lines[i].Price.Equal(item.Price), "line price is snapshotted")
		assert.Equal(t, lines[i].Quantity, item.Quantity)
	}

	assert.True(t, mockTx.committed)
	assert.False(t, mockTx.rolledBack)
	orderRepo.AssertExpectations(t)
	cartRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestCheckoutService_Checkout_NoCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	cartRepo.On("FindByUserID", ctx, userID).Return(nil, nil)
	service := NewCheckoutService(orderRepo, cartRepo, zerolog.Nop())

	order, err := service.Checkout(ctx, userID)

	assert.Nil(t, order)
	assert.Equal(t, model.ErrCartNotFound, err)
	orderRepo.AssertNotCalled(t, "BeginTx")
}

func TestCheckoutService_Checkout_EmptyCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cartID := uuid.New()

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	mockTx := new(MockTx)
	service := NewCheckoutService(orderRepo, cartRepo, zerolog.Nop())

	cartRepo.On("FindByUserID", ctx, userID).Return(&cartID, nil)
	orderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	cartRepo.On("LockCart", ctx, mockTx, cartID).Return(nil)
	cartRepo.On("LinesTx", ctx, mockTx, cartID).Return([]model.CartLine{}, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	order, err := service.Checkout(ctx, userID)

	assert.Nil(t, order)
	assert.Equal(t, model.ErrCartEmpty, err)
	assert.True(t, mockTx.rolledBack)
	orderRepo.AssertNotCalled(t, "CreateOrder")
	cartRepo.AssertNotCalled(t, "ClearItems")
}

func TestCheckoutService_Checkout_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cartID := uuid.New()

	tests := []struct {
		name     string
		setup    func(*MockOrderRepository, *MockCartRepository, *MockTx)
		errorMsg string
	}{
		{
			name: "Create order fails",
			setup: func(o *MockOrderRepository, c *MockCartRepository, tx *MockTx) {
				o.On("CreateOrder", ctx, tx, mock.Anything).Return(errors.New("insert failed"))
			},
			errorMsg: "failed to create order",
		},
		{
			name: "Create items fails",
			setup: func(o *MockOrderRepository, c *MockCartRepository, tx *MockTx) {
				o.On("CreateOrder", ctx, tx, mock.Anything).Return(nil)
				o.On("CreateOrderItems", ctx, tx, mock.Anything).Return(errors.New("batch failed"))
			},
			errorMsg: "failed to create order items",
		},
		{
			name: "Clear cart fails",
			setup: func(o *MockOrderRepository, c *MockCartRepository, tx *MockTx) {
				o.On("CreateOrder", ctx, tx, mock.Anything).Return(nil)
				o.On("CreateOrderItems", ctx, tx, mock.Anything).Return(nil)
				c.On("ClearItems", ctx, tx, cartID).Return(int64(0), errors.New("delete failed"))
			},
			errorMsg: "failed to clear cart",
		},
		{
			name: "Commit fails",
			setup: func(o *MockOrderRepository, c *MockCartRepository, tx *MockTx) {
				o.On("CreateOrder", ctx, tx, mock.Anything).Return(nil)
				o.On("CreateOrderItems", ctx, tx, mock.Anything).Return(nil)
				c.On("ClearItems", ctx, tx, cartID).Return(int64(2), nil)
				tx.On("Commit", ctx).Return(errors.New("serialization failure"))
			},
			errorMsg: "failed to checkout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := new(MockOrderRepository)
			cartRepo := new(MockCartRepository)
			mockTx := new(MockTx)
			service := NewCheckoutService(orderRepo, cartRepo, zerolog.Nop())

			cartRepo.On("FindByUserID", ctx, userID).Return(&cartID, nil)
			orderRepo.On("BeginTx", ctx).Return(mockTx, nil)
			cartRepo.On("LockCart", ctx, mockTx, cartID).Return(nil)
			cartRepo.On("LinesTx", ctx, mockTx, cartID).Return(checkoutLines(), nil)
			mockTx.On("Rollback", ctx).Return(nil)
			tt.setup(orderRepo, cartRepo, mockTx)

			order, err := service.Checkout(ctx, userID)

			require.Error(t, err)
			assert.Nil(t, order)
			assert.Contains(t, err.Error(), tt.errorMsg)
			assert.True(t, mockTx.rolledBack)
			mockTx.AssertExpectations(t)
		})
	}
}

func TestCheckoutService_Checkout_BeginTxFailure(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cartID := uuid.New()

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	cartRepo.On("FindByUserID", ctx, userID).Return(&cartID, nil)
	orderRepo.On("BeginTx", ctx).Return(nil, errors.New("too many connections"))
	service := NewCheckoutService(orderRepo, cartRepo, zerolog.Nop())

	_, err := service.Checkout(ctx, userID)

	require.Error(t, err)
	cartRepo.AssertNotCalled(t, "LockCart")
}

func TestCheckoutService_ListOrders(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	orders := []model.Order{{ID: uuid.New(), UserID: userID}}

	orderRepo := new(MockOrderRepository)
	orderRepo.On("ListByUser", ctx, userID).Return(orders, nil)
	service := NewCheckoutService(orderRepo, new(MockCartRepository), zerolog.Nop())

	result, err := service.ListOrders(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, orders, result)
}

func TestCheckoutService_GetOrder(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()
	order := &model.Order{ID: uuid.New(), UserID: owner}
	items := []model.OrderItem{{ID: uuid.New(), OrderID: order.ID, Quantity: 1}}
	missing := uuid.New()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetByID", ctx, order.ID).Return(order, items, nil)
	orderRepo.On("GetByID", ctx, missing).Return(nil, nil, nil)
	service := NewCheckoutService(orderRepo, new(MockCartRepository), zerolog.Nop())

	t.Run("Owner", func(t *testing.T) {
		gotOrder, gotItems, err := service.GetOrder(ctx, owner, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order, gotOrder)
		assert.Equal(t, items, gotItems)
	})

	t.Run("Another user", func(t *testing.T) {
		_, _, err := service.GetOrder(ctx, stranger, order.ID)
		assert.Equal(t, model.ErrOrderNotFound, err)
	})

	t.Run("Missing", func(t *testing.T) {
		_, _, err := service.GetOrder(ctx, owner, missing)
		assert.Equal(t, model.ErrOrderNotFound, err)
	})
}
