package ranking

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariantViolation is returned when a model breaks the uniqueness or capacity rules.
	ErrInvariantViolation = errors.New("ranking: invariant violation")
	// ErrConfiguration is returned for unusable quiz settings (bad answer key, ranked positions <= 0).
	ErrConfiguration = errors.New("ranking: configuration error")
	// ErrUnknownItem is returned when a dragged item is not part of the model.
	ErrUnknownItem = errors.New("ranking: unknown item")
)

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

func configf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
