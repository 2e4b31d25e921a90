// Package lecturertest provides conformance tests for lecturer.Repository implementations
package lecturertest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghamo/lecturer-service/internal/domain/lecturer"
)

// RepositoryFactory creates an empty Repository for a single test.
// Backends sharing state across tests must clean up through t.Cleanup.
type RepositoryFactory func(t *testing.T) lecturer.Repository

// RunConformanceTests runs all conformance tests against a Repository implementation
func RunConformanceTests(t *testing.T, factory RepositoryFactory) {
	tests := []struct {
		name string
		test func(t *testing.T, repo lecturer.Repository)
	}{
		{"SaveThenFind", testSaveThenFind},
		{"FindMissing", testFindMissing},
		{"SaveReplaces", testSaveReplaces},
		{"SaveTwiceIsIdempotent", testSaveTwiceIsIdempotent},
		{"DeleteThenFind", testDeleteThenFind},
		{"DeleteMissing", testDeleteMissing},
		{"DeleteTwice", testDeleteTwice},
		{"FindAllMembership", testFindAllMembership},
		{"SaveRejectsEmptyID", testSaveRejectsEmptyID},
		{"SaveDoesNotAliasInput", testSaveDoesNotAliasInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.test(t, factory(t))
		})
	}
}

// NewLecturer builds a lecturer with a unique id derived from the test name
func NewLecturer(t *testing.T, suffix string) *lecturer.Lecturer {
	return &lecturer.Lecturer{
		ID:          lecturer.ID(fmt.Sprintf("conf-%s-%s", t.Name(), suffix)),
		Name:        "Ada " + suffix,
		Email:       suffix + "@lms.example",
		ProfilePic:  "https://cdn.lms.example/" + suffix + ".png",
		Bio:         "Teaches distributed systems",
		Courses:     []string{"CS101", "CS202"},
		SocialMedia: []string{"https://social.example/" + suffix},
	}
}

func testSaveThenFind(t *testing.T, repo lecturer.Repository) {
	ctx := context.Background()
	want := NewLecturer(t, "a")

	saved, err := repo.Save(ctx, want)
	require.NoError(t, err)
	assert.True(t, want.Equal(saved), "saved record should equal input")

	got, err := repo.FindByID(ctx, want.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, want.Equal(got), "expected %+v, got %+v", want, got)
}

func testFindMissing(t *testing.T, repo lecturer.Repository) {
	got, err := repo.FindByID(context.Background(), lecturer.ID("conf-missing-"+t.Name()))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testSaveReplaces(t *testing.T, repo lecturer.Repository) {
	ctx := context.Background()
	original := NewLecturer(t, "a")
	_, err := repo.Save(ctx, original)
	require.NoError(t, err)

	updated := original.Clone()
	updated.Name = "Grace"
	updated.Courses = []string{"CS303"}
	_, err = repo.Save(ctx, updated)
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, original.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Grace", got.Name)
	assert.Equal(t, []string{"CS303"}, got.Courses)
}

func testSaveTwiceIsIdempotent(t *testing.T, repo lecturer.Repository) {
	ctx := context.Background()
	l := NewLecturer(t, "a")

	_, err := repo.Save(ctx, l)
	require.NoError(t, err)
	once, err := repo.FindAll(ctx)
	require.NoError(t, err)

	_, err = repo.Save(ctx, l)
	require.NoError(t, err)
	twice, err := repo.FindAll(ctx)
	require.NoError(t, err)

	assert.ElementsMatch(t, ids(once), ids(twice))
	got, err := repo.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, l.Equal(got))
}

func testDeleteThenFind(t *testing.T, repo lecturer.Repository) {
	ctx := context.Background()
	l := NewLecturer(t, "a")
	_, err := repo.Save(ctx, l)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByID(ctx, l.ID))

	got, err := repo.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testDeleteMissing(t *testing.T, repo lecturer.Repository) {
	ctx := context.Background()
	id := lecturer.ID("conf-never-saved-" + t.Name())

	require.NoError(t, repo.DeleteByID(ctx, id))

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testDeleteTwice(t *testing.T, repo lecturer.Repository) {
	ctx := context.Background()
	l := NewLecturer(t, "a")
	_, err := repo.Save(ctx, l)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByID(ctx, l.ID))
	require.NoError(t, repo.DeleteByID(ctx, l.ID))
}

func testFindAllMembership(t *testing.T, repo lecturer.Repository) {
	ctx := context.Background()
	var want []lecturer.ID
	for _, suffix := range []string{"a", "b", "c"} {
		l := NewLecturer(t, suffix)
		_, err := repo.Save(ctx, l)
		require.NoError(t, err)
		want = append(want, l.ID)
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)

	// Shared backends may hold rows from other tests; only this test's ids matter
	got := make([]lecturer.ID, 0, len(want))
	for _, id := range ids(all) {
		for _, w := range want {
			if id == w {
				got = append(got, id)
			}
		}
	}
	assert.ElementsMatch(t, want, got)
}

func testSaveRejectsEmptyID(t *testing.T, repo lecturer.Repository) {
	l := NewLecturer(t, "a")
	l.ID = ""

	_, err := repo.Save(context.Background(), l)
	assert.Error(t, err)
}

func testSaveDoesNotAliasInput(t *testing.T, repo lecturer.Repository) {
	ctx := context.Background()
	l := NewLecturer(t, "a")
	_, err := repo.Save(ctx, l)
	require.NoError(t, err)

	l.Courses[0] = "MUTATED"

	got, err := repo.FindByID(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "CS101", got.Courses[0])
}

func ids(lecturers []*lecturer.Lecturer) []lecturer.ID {
	out := make([]lecturer.ID, 0, len(lecturers))
	for _, l := range lecturers {
		out = append(out, l.ID)
	}
	return out
}
