package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"coursemart/internal/auth"
	"coursemart/internal/database"
	"coursemart/internal/handler"
	"coursemart/internal/middleware"
	"coursemart/internal/model"
	"coursemart/internal/repository"
	"coursemart/internal/router"
	"coursemart/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret = "integration-secret-0123456789abcdef"
	cookieName = "token"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a migrated PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	if err := database.MigrateUp(connStr, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	pool, err := database.Connect(ctx, connStr, &database.PoolOptions{
		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: time.Minute,
	})
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// TestApp is the full HTTP stack over a test database.
type TestApp struct {
	Handler http.Handler
	Tokens  *auth.TokenService
	Auth    service.AuthService
}

// SetupTestApp wires repositories, services, handlers and the router the way
// the serve command does, without the remote recommender.
func SetupTestApp(t *testing.T, testDB *TestDB) *TestApp {
	t.Helper()

	logger := zerolog.Nop()
	pool := testDB.Pool

	userRepo := repository.NewUserRepository(pool, logger)
	courseRepo := repository.NewCourseRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	adminRepo := repository.NewAdminRepository(pool, logger)

	tokens := auth.NewTokenService(testSecret, time.Hour)
	authService := service.NewAuthService(userRepo, auth.NewBcryptHasher(bcrypt.MinCost), tokens, logger)

	handlers := router.Handlers{
		Health: handler.NewHealthHandler(pool, logger),
		Auth:   handler.NewAuthHandler(authService, handler.CookieOptions{Name: cookieName, MaxAge: time.Hour}, logger),
		Course: handler.NewCourseHandler(service.NewCourseService(courseRepo, logger), logger),
		Cart:   handler.NewCartHandler(service.NewCartService(cartRepo, courseRepo, logger), logger),
		Order:  handler.NewOrderHandler(service.NewCheckoutService(orderRepo, cartRepo, logger), logger),
		Admin:  handler.NewAdminHandler(service.NewAdminService(adminRepo, userRepo, cartRepo, logger), logger),
		Recommendation: handler.NewRecommendationHandler(service.NewRecommendationService(
			nil, nil, courseRepo, orderRepo, adminRepo, service.RecommendationOptions{}, logger,
		), logger),
	}

	h := router.New(handlers, router.Options{
		Verifier:       tokens,
		CookieName:     cookieName,
		AllowedOrigins: []string{"http://localhost:3000"},
		RateLimiter:    middleware.NewRateLimiter(1000, 1000),
	}, logger)

	return &TestApp{Handler: h, Tokens: tokens, Auth: authService}
}

// SeedCourse inserts an available course with the given title and price.
func SeedCourse(t *testing.T, pool *pgxpool.Pool, title, category, price string) *model.Course {
	t.Helper()

	now := time.Now().UTC()
	course := &model.Course{
		ID:          uuid.New(),
		Title:       title,
		Description: title + " description",
		Category:    category,
		Price:       decimal.RequireFromString(price),
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	logger := zerolog.Nop()
	if err := repository.NewCourseRepository(pool, logger).Create(context.Background(), course); err != nil {
		t.Fatalf("failed to seed course %s: %v", title, err)
	}

	return course
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "cart_items", "carts", "courses", "users"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
