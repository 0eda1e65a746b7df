package videos

import "errors"

var (
	// ErrVideoNotFound indicates the referenced video does not exist.
	ErrVideoNotFound = errors.New("video not found")
	// ErrUserNotFound indicates the caller has no registered user record.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmptyUpload indicates the uploaded file carried no content.
	ErrEmptyUpload = errors.New("uploaded file is empty")
	// ErrInvalidStatus indicates the supplied video status is not a known value.
	ErrInvalidStatus = errors.New("invalid video status")
)
