package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrAttemptNotFound is returned for unknown or expired attempt ids.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrAttemptLocked is returned when an attempt is changed after submission or reveal.
	ErrAttemptLocked = errors.New("attempt is locked")
	// ErrInvalidSubmission wraps field validation failures on score submissions.
	ErrInvalidSubmission = errors.New("invalid score submission")
)
