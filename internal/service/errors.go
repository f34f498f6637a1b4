package service

import "errors"

// Common service errors
var (
	// ErrPermitNotFound is returned when a permit letter does not exist
	ErrPermitNotFound = errors.New("permit letter not found")

	// ErrForbidden is returned when the caller's role may not perform an action
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrPreconditionNotMet is returned when a stage is decided before the stage it depends on
	ErrPreconditionNotMet = errors.New("previous stage has not been decided")

	// ErrStageFrozen is returned when a stage is decided after its successor already acted
	ErrStageFrozen = errors.New("stage can no longer be changed")

	// ErrConflict is returned when there's a conflict (duplicate letter number or concurrent update)
	ErrConflict = errors.New("resource conflict")

	// ErrPersistence is returned when the store fails during the primary update
	ErrPersistence = errors.New("persistence failure")

	// ErrUserContextRequired is returned when user context is not available
	ErrUserContextRequired = errors.New("user context required")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrAuditLogNotFound is returned when an audit entry is not found
	ErrAuditLogNotFound = errors.New("audit log not found")

	// ErrNotificationNotFound is returned when a notification is not found
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrNotificationNotOwned is returned when trying to access a notification owned by another user
	ErrNotificationNotOwned = errors.New("notification does not belong to current user")
)
