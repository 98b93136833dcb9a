// Package errors defines the sentinel errors shared across the tool so
// failure causes stay distinguishable with errors.Is at the top level.
package errors

import (
	"errors"
)

var (
	// General Errors
	ErrInvalidArgument = errors.New("invalid argument")

	// Credential Errors
	ErrCredentialsNotFound = errors.New("credentials file not found")
	ErrCredentialsParse    = errors.New("error parsing credentials file")
	ErrCredentialsRead     = errors.New("error reading credentials file")
	ErrCredentialsEmpty    = errors.New("credentials file is empty or invalid")
	ErrTokenMissing        = errors.New("N8N API token not found")
	ErrTokenEmpty          = errors.New("API token cannot be empty")

	// n8n API Errors
	ErrAPIRequestFailed = errors.New("error fetching workflow")
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrConnectionFailed = errors.New("failed to connect to n8n")

	// File & Directory Errors
	ErrFileWriteError = errors.New("error writing to file")
)
