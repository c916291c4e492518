package s3archive

import "errors"

var (
	ErrInvalidConfig      = errors.New("s3archive: bucket and region are required")
	ErrFailedToLoadConfig = errors.New("s3archive: failed to load AWS config")
	ErrBucketUnavailable  = errors.New("s3archive: bucket missing or access denied")
	ErrUploadFailed       = errors.New("s3archive: upload failed")
)
