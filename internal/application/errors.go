package application

import "errors"

// Messages are part of the API contract; handlers return them verbatim.
var (
	ErrEmailAlreadyExists = errors.New("User with this email already exists")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrUserNotFound       = errors.New("User not found")
	ErrTaskNotFound       = errors.New("Task not found")
	ErrForbidden          = errors.New("You do not have permission to access this task")
)
