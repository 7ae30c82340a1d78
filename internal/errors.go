package internal

import "errors"

var (
	ErrConnection      = errors.New("database connection failed")
	ErrStatement       = errors.New("database statement failed")
	ErrAccountNotFound = errors.New("account not found")
)
