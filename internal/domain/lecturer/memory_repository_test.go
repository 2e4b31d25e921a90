package lecturer_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghamo/lecturer-service/internal/domain/lecturer"
	"github.com/danghamo/lecturer-service/internal/domain/lecturer/lecturertest"
)

func TestMemoryRepository(t *testing.T) {
	lecturertest.RunConformanceTests(t, func(t *testing.T) lecturer.Repository {
		return lecturer.NewMemoryRepository()
	})
}

func TestMemoryRepository_ConcurrentSaves(t *testing.T) {
	repo := lecturer.NewMemoryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Save(ctx, &lecturer.Lecturer{
				ID:   lecturer.ID(fmt.Sprintf("lec-%d", i%10)),
				Name: fmt.Sprintf("writer-%d", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, repo.Len())
}

func TestMemoryRepository_CancelledContext(t *testing.T) {
	repo := lecturer.NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Save(ctx, &lecturer.Lecturer{ID: "lec-1"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = repo.FindAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = repo.FindByID(ctx, "lec-1")
	assert.ErrorIs(t, err, context.Canceled)

	assert.ErrorIs(t, repo.DeleteByID(ctx, "lec-1"), context.Canceled)
}

func TestMemoryRepository_NormalizesLists(t *testing.T) {
	repo := lecturer.NewMemoryRepository()
	ctx := context.Background()

	_, err := repo.Save(ctx, &lecturer.Lecturer{ID: "lec-1", Name: "Ada"})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, "lec-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NotNil(t, got.Courses)
	assert.NotNil(t, got.SocialMedia)
}
