package storage

import "errors"

var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrNotInitialized     = errors.New("store not initialized")
	ErrAlreadyInitialized = errors.New("store already initialized")
	ErrWriteFailed        = errors.New("write failed")
	ErrQueryFailed        = errors.New("query failed")
	ErrNotFound           = errors.New("transaction not found")
)
