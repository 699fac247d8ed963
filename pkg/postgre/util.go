package postgres

import (
	"fmt"

	"github.com/aarondl/strmangle"
	"github.com/google/uuid"
)

// IsUUID returns an error when u is not a valid UUID.
func IsUUID(u string) error {
	if u == "" {
		return fmt.Errorf("%w: UUID cannot be empty", ErrInvalidUUID)
	}
	if _, err := uuid.Parse(u); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUUID, err)
	}
	return nil
}

func IsValidUUID(u string) bool {
	return IsUUID(u) == nil
}

func NewUUID() string {
	return uuid.New().String()
}

// ValidateUUIDs checks every id and reports the first invalid index.
func ValidateUUIDs(ids []string) error {
	for i, id := range ids {
		if err := IsUUID(id); err != nil {
			return fmt.Errorf("invalid UUID at index %d: %w", i, err)
		}
	}
	return nil
}

// InClause returns "col IN ($start,...)" for n positional arguments.
func InClause(col string, n, start int) string {
	return fmt.Sprintf("%s IN (%s)", col, strmangle.Placeholders(true, n, start, 1))
}

// ToArgs converts typed values into query arguments.
func ToArgs[T any](values []T) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
