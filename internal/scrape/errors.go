package scrape

import "errors"

var (
	// ErrStorageUnavailable is returned when the underlying storage
	// facility cannot be initialized.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrNotOpen is returned for operations attempted before Open or after
	// Close.
	ErrNotOpen = errors.New("content store is not open")
	// ErrNoContent is returned by extraction when a page yields no readable
	// text.
	ErrNoContent = errors.New("no readable content found")
	// ErrEmptyURL is returned when a record is missing its URL.
	ErrEmptyURL = errors.New("url cannot be empty")
	// ErrInvalidTimestamp is returned when a record carries a negative
	// timestamp.
	ErrInvalidTimestamp = errors.New("timestamp must not be negative")
)
