package chimelib

import "errors"

var (
	ErrInvalidScheduledTime = errors.New("scheduled time is not a valid RFC 3339 timestamp")
	ErrEmptyToken           = errors.New("alert token must not be empty")

	ErrAlertNotFound  = errors.New("alert you are trying to access is not found")
	ErrStorageClosed  = errors.New("alert storage is not open")
	ErrTokenPersisted = errors.New("alert token is already persisted")
)
