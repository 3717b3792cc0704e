package repository

import (
	"context"
	"testing"
	"time"

	"coursemart/internal/database"
	"coursemart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a migrated PostgreSQL testcontainer and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.MigrateUp(connStr, zerolog.Nop()))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func seedUser(t *testing.T, pool *pgxpool.Pool, name string, role model.Role) *model.User {
	t.Helper()

	u := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, NewUserRepository(pool, zerolog.Nop()).Create(context.Background(), u))

	return u
}

func seedCourse(t *testing.T, pool *pgxpool.Pool, title, category, price string) *model.Course {
	t.Helper()

	now := time.Now()
	c := &model.Course{
		ID:          uuid.New(),
		Title:       title,
		Description: "About " + title,
		Category:    category,
		Price:       decimal.RequireFromString(price),
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, NewCourseRepository(pool, zerolog.Nop()).Create(context.Background(), c))

	return c
}
