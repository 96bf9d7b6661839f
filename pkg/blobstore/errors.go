package blobstore

import "errors"

var (
	ErrNotFound         = errors.New("blobstore: blob not found")
	ErrAccessDenied     = errors.New("blobstore: access denied")
	ErrFetchFailed      = errors.New("blobstore: fetch failed")
	ErrPutFailed        = errors.New("blobstore: put failed")
	ErrInvalidName      = errors.New("blobstore: invalid blob name")
	ErrInvalidBlob      = errors.New("blobstore: invalid table blob")
	ErrNotLoaded        = errors.New("blobstore: table not loaded")
	ErrInUse            = errors.New("blobstore: table has outstanding leases")
	ErrInvalidConfig    = errors.New("blobstore: invalid configuration")
	ErrConnectionFailed = errors.New("blobstore: failed to establish connection")
	ErrMigrate          = errors.New("blobstore: failed to apply migrations")
)
