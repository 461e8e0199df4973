package repo

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound so callers can match either.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrInvalidDocument is returned when an order document cannot be encoded.
// Such a row would store an empty document and break every later read.
var ErrInvalidDocument = errors.New("order document cannot be encoded")
