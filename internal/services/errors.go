package services

import "errors"

// Data service errors
var (
	ErrNoDataset      = errors.New("no dataset loaded")
	ErrEmptyUpload    = errors.New("upload contains no parsable records")
	ErrUploadTooLarge = errors.New("payload too large")
)
