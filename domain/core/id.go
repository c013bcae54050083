package core

import "github.com/google/uuid"

// ID is a globally unique identifier for runs and stored artifacts.
type ID string

// NewID generates a new random ID.
func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string {
	return string(id)
}

// IsValid reports whether the ID parses as a UUID.
func (id ID) IsValid() bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}
