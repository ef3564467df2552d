package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed    = errors.New("validation failed")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrNameRequired        = errors.New("name is required")
	ErrPredictionsClosed   = errors.New("predictions are closed for this stage")
	ErrInvalidGameResult   = errors.New("invalid game result")
	ErrKnockoutDrawInvalid = errors.New("a knockout game cannot end in a draw")
	ErrInvalidStanding     = errors.New("standings must be a permutation of the group's teams")

	// Conflicts
	ErrUserEmailConflict = errors.New("email address is already in use")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Entity lookups
	ErrUserNotFound  = errors.New("user not found")
	ErrTeamNotFound  = errors.New("team not found")
	ErrGameNotFound  = errors.New("game not found")
	ErrGroupNotFound = errors.New("group not found")

	// Uploads
	ErrUnsupportedImageType = errors.New("unsupported image type")
)
