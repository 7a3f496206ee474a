package domain

import "errors"

// Store-level errors. Drivers translate their native errors into these so
// usecases never inspect driver types.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("duplicate resource")
)
