package model

import "errors"

var (
	ErrResumeFileNotFound = errors.New("resume file not found")
	ErrBaseResumeNotFound = errors.New("base resume not found")
	ErrVariantNotFound    = errors.New("job variant not found")
	ErrSubmittedPDFNotFound = errors.New("submitted resume pdf not found")

	ErrBaseResumeNameRequired = errors.New("base resume name is required")
	ErrDuplicateBaseResumeName = errors.New("a base resume with this name already exists")
	ErrCannotDeletePrimary     = errors.New("cannot delete the primary base resume while other resumes exist")
	ErrVariantAlreadyApproved  = errors.New("job variant is already approved and cannot be modified")
)

type ErrorCode string

const (
	CodeResumeFileNotFound      ErrorCode = "RESUME_FILE_NOT_FOUND"
	CodeBaseResumeNotFound      ErrorCode = "BASE_RESUME_NOT_FOUND"
	CodeVariantNotFound         ErrorCode = "VARIANT_NOT_FOUND"
	CodeSubmittedPDFNotFound    ErrorCode = "SUBMITTED_PDF_NOT_FOUND"
	CodeBaseResumeNameRequired  ErrorCode = "BASE_RESUME_NAME_REQUIRED"
	CodeDuplicateBaseResumeName ErrorCode = "DUPLICATE_BASE_RESUME_NAME"
	CodeCannotDeletePrimary     ErrorCode = "CANNOT_DELETE_PRIMARY"
	CodeVariantAlreadyApproved  ErrorCode = "VARIANT_ALREADY_APPROVED"
	CodeInternalError           ErrorCode = "INTERNAL_ERROR"
)

func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrResumeFileNotFound):
		return CodeResumeFileNotFound
	case errors.Is(err, ErrBaseResumeNotFound):
		return CodeBaseResumeNotFound
	case errors.Is(err, ErrVariantNotFound):
		return CodeVariantNotFound
	case errors.Is(err, ErrSubmittedPDFNotFound):
		return CodeSubmittedPDFNotFound
	case errors.Is(err, ErrBaseResumeNameRequired):
		return CodeBaseResumeNameRequired
	case errors.Is(err, ErrDuplicateBaseResumeName):
		return CodeDuplicateBaseResumeName
	case errors.Is(err, ErrCannotDeletePrimary):
		return CodeCannotDeletePrimary
	case errors.Is(err, ErrVariantAlreadyApproved):
		return CodeVariantAlreadyApproved
	default:
		return CodeInternalError
	}
}

func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrResumeFileNotFound):
		return "Resume file not found"
	case errors.Is(err, ErrBaseResumeNotFound):
		return "Base resume not found"
	case errors.Is(err, ErrVariantNotFound):
		return "Job variant not found"
	case errors.Is(err, ErrSubmittedPDFNotFound):
		return "Submitted resume PDF not found"
	case errors.Is(err, ErrBaseResumeNameRequired):
		return "Base resume name is required"
	case errors.Is(err, ErrDuplicateBaseResumeName):
		return "A base resume with this name already exists"
	case errors.Is(err, ErrCannotDeletePrimary):
		return "Cannot delete the primary base resume while other resumes exist"
	case errors.Is(err, ErrVariantAlreadyApproved):
		return "Job variant is already approved and cannot be modified"
	default:
		return "Internal server error"
	}
}
