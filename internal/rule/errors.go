package rule

import "errors"

var (
	ErrRuleNotFound     = errors.New("rule not found")
	ErrNameRequired     = errors.New("rule name is required")
	ErrInvalidType      = errors.New("invalid rule type")
	ErrInvalidPriority  = errors.New("rule priority must not be negative")
	ErrNoConditions     = errors.New("rule must have at least one condition")
	ErrInvalidCondition = errors.New("invalid rule condition")
	ErrInvalidOutcome   = errors.New("invalid rule outcome")
	ErrConcurrentEdit   = errors.New("rule was modified concurrently")
	ErrPermissionDenied = errors.New("permission denied")
)
