package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RequestID  ID
	ScenarioID ID
)

func (id RequestID) String() string  { return ID(id).String() }
func (id ScenarioID) String() string { return ID(id).String() }

// NewRequestID returns a fresh request identifier
func NewRequestID() RequestID {
	return RequestID(NewID())
}

// ParseRequestID accepts a caller-supplied request id, rejecting blank or oversized values
func ParseRequestID(s string) (RequestID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("request ID cannot be empty")
	}
	if len(s) > 128 {
		return "", fmt.Errorf("request ID too long (%d bytes)", len(s))
	}
	return RequestID(s), nil
}

// ParseScenarioID normalizes a scenario slug
func ParseScenarioID(s string) (ScenarioID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", NewInvalidParameterError("scenario_id", "cannot be empty")
	}
	return ScenarioID(s), nil
}
