// Package model provides domain model for csvsql
package model

import "errors"

// ErrDuplicateColumnName is returned when a header names the same column twice
var ErrDuplicateColumnName = errors.New("duplicate column name")

// ErrUnknownOutputFormat is returned when an output format name is not recognized
var ErrUnknownOutputFormat = errors.New("unknown output format")

// ErrUnknownCompression is returned when a compression name is not recognized
var ErrUnknownCompression = errors.New("unknown compression type")
