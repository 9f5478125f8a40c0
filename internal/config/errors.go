package config

import "errors"

var (
	// ErrEmptyDatabasePath is returned when database path is empty
	ErrEmptyDatabasePath = errors.New("database_path cannot be empty")
	// ErrInvalidTimeout is returned when request timeout is not greater than 0
	ErrInvalidTimeout = errors.New("request_timeout must be greater than 0")
	// ErrInvalidMaxBodySize is returned when the download cap is not greater than 0
	ErrInvalidMaxBodySize = errors.New("max_body_size must be greater than 0")
	// ErrInvalidRecentLimit is returned when the recency default is not greater than 0
	ErrInvalidRecentLimit = errors.New("recent_limit must be greater than 0")
	// ErrInvalidSnippetLength is returned when the snippet length is not greater than 0
	ErrInvalidSnippetLength = errors.New("snippet_length must be greater than 0")
)
