package model

import "errors"

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrAlreadyApplied      = errors.New("persona already has an application for this job")
)

type ErrorCode string

const (
	CodeApplicationNotFound ErrorCode = "APPLICATION_NOT_FOUND"
	CodeInvalidStatus       ErrorCode = "INVALID_STATUS"
	CodeAlreadyApplied      ErrorCode = "ALREADY_APPLIED"
	CodeInternalError       ErrorCode = "INTERNAL_ERROR"
)

func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrApplicationNotFound):
		return CodeApplicationNotFound
	case errors.Is(err, ErrInvalidStatus):
		return CodeInvalidStatus
	case errors.Is(err, ErrAlreadyApplied):
		return CodeAlreadyApplied
	default:
		return CodeInternalError
	}
}

func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrApplicationNotFound):
		return "Application not found"
	case errors.Is(err, ErrInvalidStatus):
		return "Invalid status"
	case errors.Is(err, ErrAlreadyApplied):
		return "Persona already has an application for this job"
	default:
		return "Internal server error"
	}
}
