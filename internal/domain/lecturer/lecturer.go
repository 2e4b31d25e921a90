package lecturer

import (
	"slices"

	"github.com/danghamo/lecturer-service/internal/domain/shared"
)

// ID is the primary key of a lecturer record
type ID shared.ID

// NewID creates a new lecturer ID
func NewID() ID {
	return ID(shared.NewID())
}

// String returns string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Lecturer is a teaching staff profile. Apart from ID the fields are
// caller-owned payload; the service stores them as given.
type Lecturer struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	ProfilePic  string   `json:"ppic,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Courses     []string `json:"courses"`
	SocialMedia []string `json:"social_media"`
}

// Clone returns a deep copy so stored records never alias caller memory
func (l *Lecturer) Clone() *Lecturer {
	if l == nil {
		return nil
	}
	c := *l
	c.Courses = cloneStrings(l.Courses)
	c.SocialMedia = cloneStrings(l.SocialMedia)
	return &c
}

// Equal reports whether two lecturers carry the same id and payload.
// Nil and empty lists compare equal.
func (l *Lecturer) Equal(other *Lecturer) bool {
	if l == nil || other == nil {
		return l == other
	}
	return l.ID == other.ID &&
		l.Name == other.Name &&
		l.Email == other.Email &&
		l.ProfilePic == other.ProfilePic &&
		l.Bio == other.Bio &&
		slices.Equal(l.Courses, other.Courses) &&
		slices.Equal(l.SocialMedia, other.SocialMedia)
}

// normalize replaces nil lists with empty ones so every backend round-trips the same shape
func (l *Lecturer) normalize() {
	if l.Courses == nil {
		l.Courses = []string{}
	}
	if l.SocialMedia == nil {
		l.SocialMedia = []string{}
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append(make([]string, 0, len(in)), in...)
}
