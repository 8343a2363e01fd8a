package utils

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

const (
	ErrInternalServer = "internal server error"
	ErrNotFound       = "resource not found"
)
