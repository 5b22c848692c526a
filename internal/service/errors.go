package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is the root of every missing-resource error.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the caller may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation is the root of every caller-input error.
	ErrValidation = errors.New("validation failed")
	// ErrDataIntegrity indicates stored content is inconsistent, for example a
	// lesson that cannot be traced to a course.
	ErrDataIntegrity = errors.New("data integrity violation")
	// ErrEvaluatorUnavailable indicates the AI evaluator is not configured.
	ErrEvaluatorUnavailable = errors.New("evaluator unavailable")
)

var (
	// ErrLessonNotFound indicates the lesson cannot be located.
	ErrLessonNotFound = fmt.Errorf("lesson %w", ErrNotFound)
	// ErrUserNotFound indicates the learner record cannot be located.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	// ErrProgressNotFound indicates no progress has been recorded for the course.
	ErrProgressNotFound = fmt.Errorf("progress %w", ErrNotFound)
	// ErrPaymentRequired indicates an unpaid learner tried to use paid content.
	ErrPaymentRequired = fmt.Errorf("lesson requires a paid plan: %w", ErrForbidden)
)

// ValidationError carries a client-facing description of invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is match any ValidationError against ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Learner identifies the authenticated caller of a service operation.
type Learner struct {
	ID   uint
	Role string
}

// IsStaff reports whether the caller is a teacher or an admin.
func (l Learner) IsStaff() bool {
	role := strings.ToLower(strings.TrimSpace(l.Role))
	return role == "teacher" || role == "admin"
}
