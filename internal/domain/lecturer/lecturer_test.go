package lecturer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLecturer_Clone(t *testing.T) {
	original := &Lecturer{
		ID:          "lec-1",
		Name:        "Ada",
		Courses:     []string{"CS101"},
		SocialMedia: []string{"https://social.example/ada"},
	}

	clone := original.Clone()
	clone.Courses[0] = "CS999"
	clone.SocialMedia = append(clone.SocialMedia, "https://other.example")

	assert.Equal(t, "CS101", original.Courses[0])
	assert.Len(t, original.SocialMedia, 1)
	assert.Nil(t, (*Lecturer)(nil).Clone())
}

func TestLecturer_Equal(t *testing.T) {
	a := &Lecturer{ID: "lec-1", Name: "Ada", Courses: []string{}}
	b := &Lecturer{ID: "lec-1", Name: "Ada"}

	assert.True(t, a.Equal(b), "nil and empty lists should compare equal")
	assert.False(t, a.Equal(&Lecturer{ID: "lec-2", Name: "Ada"}))
	assert.False(t, a.Equal(nil))
	assert.True(t, (*Lecturer)(nil).Equal(nil))
}

func TestNewID(t *testing.T) {
	id := NewID()

	assert.False(t, id.IsEmpty())
	assert.NotEqual(t, id, NewID())
	assert.True(t, ID("").IsEmpty())
}
