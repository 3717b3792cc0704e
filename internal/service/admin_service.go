package service

import (
	"context"
	"fmt"

	"coursemart/internal/model"
	"coursemart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DashboardListSize is how many recent orders and popular courses the dashboard shows.
const DashboardListSize = 5

// adminService implements AdminService.
type adminService struct {
	adminRepo repository.AdminRepository
	userRepo  repository.UserRepository
	cartRepo  repository.CartRepository
	logger    zerolog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(
	adminRepo repository.AdminRepository,
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	logger zerolog.Logger,
) AdminService {
	return &adminService{
		adminRepo: adminRepo,
		userRepo:  userRepo,
		cartRepo:  cartRepo,
		logger:    logger.With().Str("service", "admin").Logger(),
	}
}

func clampLimit(limit int) int {
	switch {
	case limit < 1:
		return DashboardListSize
	case limit > 100:
		return 100
	default:
		return limit
	}
}

func (s *adminService) Stats(ctx context.Context) (*model.Stats, error) {
	stats, err := s.adminRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

func (s *adminService) RecentOrders(ctx context.Context, limit int) ([]model.OrderWithUser, error) {
	orders, err := s.adminRepo.RecentOrders(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get recent orders: %w", err)
	}
	return orders, nil
}

func (s *adminService) PopularCourses(ctx context.Context, limit int) ([]model.PopularCourse, error) {
	courses, err := s.adminRepo.PopularCourses(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get popular courses: %w", err)
	}
	return courses, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UserDetail never creates a cart for the inspected user.
func (s *adminService) UserDetail(ctx context.Context, userID uuid.UUID) (*model.UserDetail, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		return nil, model.ErrUserNotFound
	}

	orders, err := s.adminRepo.UserOrders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user orders: %w", err)
	}

	detail := &model.UserDetail{
		User:   *user,
		Orders: orders,
	}

	cartID, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}

	if cartID != nil {
		lines, err := s.cartRepo.Lines(ctx, *cartID)
		if err != nil {
			return nil, fmt.Errorf("failed to get cart items: %w", err)
		}
		detail.Cart = &model.Cart{
			ID:    *cartID,
			Items: lines,
			Total: model.SumLines(lines),
		}
	}

	return detail, nil
}

func (s *adminService) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.RecentOrders(ctx, DashboardListSize)
	if err != nil {
		return nil, err
	}

	popular, err := s.PopularCourses(ctx, DashboardListSize)
	if err != nil {
		return nil, err
	}

	return &model.Dashboard{
		Stats:          *stats,
		RecentOrders:   recent,
		PopularCourses: popular,
	}, nil
}
