package domain

import "errors"

var (
	ErrEmailExists        = errors.New("email exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrEmptyCart          = errors.New("empty cart")
)
