package services

import (
	"errors"

	"kalender/store"
)

var (
	ErrBadArguments  = errors.New("bad arguments")
	ErrNotFound      = store.ErrNotFound
	ErrAlreadyExists = store.ErrAlreadyExists
	ErrForbidden     = errors.New("forbidden")
	ErrUnauthorized  = errors.New("unauthorized")
)
