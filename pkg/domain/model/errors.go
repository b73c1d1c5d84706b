package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations. Callers compare with errors.Is.
var (
	// ErrInvalidRequest is the caller's fault. No partial work was done.
	ErrInvalidRequest = goerr.New("invalid request")
	// ErrConfiguration means a transport or store is unusable as configured.
	ErrConfiguration = goerr.New("configuration error")
	// ErrNotFound is returned for missing entities and for batches in which no recipient resolved.
	ErrNotFound = goerr.New("not found")

	// Session level errors abort a whole dispatch batch.
	ErrAuth    = goerr.New("authentication failed")
	ErrConnect = goerr.New("connection failed")
	// ErrTimeout is returned when the caller's deadline expires during a dispatch.
	ErrTimeout = goerr.New("dispatch timed out")

	// ErrSend is isolated to one recipient and recorded in the outcome.
	ErrSend = goerr.New("send failed")

	ErrAttachmentNotFound = goerr.New("attachment not found")
)
