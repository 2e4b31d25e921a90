package lecturer_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghamo/lecturer-service/internal/domain/lecturer"
	"github.com/danghamo/lecturer-service/internal/domain/lecturer/lecturertest"
	"github.com/danghamo/lecturer-service/pkg/logger"
	"github.com/danghamo/lecturer-service/pkg/postgresx"
)

// setupTestPostgres connects to POSTGRES_DSN and applies migrations
func setupTestPostgres(t *testing.T) *postgresx.Pool {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN environment variable not set, skipping Postgres integration tests")
	}

	ctx := context.Background()
	pool, err := postgresx.NewPool(ctx, dsn, 4, logger.NewDefault())
	require.NoError(t, err, "Failed to connect to Postgres")
	require.NoError(t, pool.Migrate(ctx, postgresx.MigrateUp))

	t.Cleanup(func() {
		_, err := pool.Exec(context.Background(), `DELETE FROM lecturers WHERE id LIKE 'conf-%'`)
		assert.NoError(t, err)
		pool.Close()
	})

	return pool
}

func TestPostgresRepository(t *testing.T) {
	lecturertest.RunConformanceTests(t, func(t *testing.T) lecturer.Repository {
		return lecturer.NewPostgresRepository(setupTestPostgres(t))
	})
}

func TestPostgresRepository_HealthCheck(t *testing.T) {
	repo := lecturer.NewPostgresRepository(setupTestPostgres(t))

	assert.NoError(t, repo.HealthCheck(context.Background()))
}
