package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrPathNotOffered     = errors.New("payment path not offered")
	ErrInvalidTransition  = errors.New("invalid purchase state transition")
)
