package shared

import (
	"github.com/google/uuid"
)

// ID represents a unique identifier
type ID string

// NewID generates a new unique ID
func NewID() ID {
	return ID(uuid.New().String())
}

// String returns the string representation of ID
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if ID is empty
func (id ID) IsEmpty() bool {
	return string(id) == ""
}

// IsUUID reports whether the ID was produced by NewID (or is otherwise a valid UUID)
func (id ID) IsUUID() bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}
