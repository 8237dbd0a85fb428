package model

import "errors"

var (
	ErrJobPostingNotFound = errors.New("job posting not found")
	ErrDuplicatePosting   = errors.New("job posting already exists for source and external id")
)
