package model

import "errors"

var (
	ErrPersonaJobNotFound = errors.New("persona job link not found")
	ErrLinkAlreadyExists  = errors.New("persona job link already exists")
)
