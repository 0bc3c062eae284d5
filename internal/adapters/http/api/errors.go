package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrThrottled  = errors.New("refresh throttled")
	ErrIngestion  = errors.New("ingestion failed")
	ErrExport     = errors.New("export failed")
)

// Wrap annotates err with the failing operation.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// WrapKind annotates err with op and kind; errors.Is matches both kind and err.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return NewKind(op, kind, "")
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// NewKind builds an error of the given kind for op.
func NewKind(op string, kind error, msg string) error {
	if msg == "" {
		return fmt.Errorf("%s: %w", op, kind)
	}
	return fmt.Errorf("%s: %w: %s", op, kind, msg)
}
