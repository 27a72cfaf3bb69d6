//go:build !ios && !android && (amd64 || arm64)

package avview

import (
	"errors"

	"github.com/obinnaokechukwu/avview/avutil"
	"github.com/obinnaokechukwu/avview/internal/bindings"
)

// FFmpegError is an error from FFmpeg operations.
// It contains the raw FFmpeg error code and a human-readable message.
type FFmpegError = avutil.Error

// Common errors
var (
	// ErrNotLoaded indicates FFmpeg libraries are not loaded.
	ErrNotLoaded = bindings.ErrNotLoaded

	// ErrLibraryNotFound indicates an FFmpeg shared library could not be found.
	ErrLibraryNotFound = bindings.ErrLibraryNotFound

	// ErrInvalidData matches errors for input FFmpeg rejects as malformed,
	// including strings with embedded NUL bytes.
	ErrInvalidData = avutil.ErrInvalidData

	// ErrClosed indicates the resource has been freed.
	ErrClosed = errors.New("avview: resource is closed")

	// ErrUnsupportedPlatform indicates there is no default capture backend
	// for this operating system.
	ErrUnsupportedPlatform = errors.New("avview: no capture backend for this platform")
)

// Error code constants re-exported from avutil
const (
	AVERROR_EOF         = avutil.AVERROR_EOF
	AVERROR_EAGAIN      = avutil.AVERROR_EAGAIN
	AVERROR_EINVAL      = avutil.AVERROR_EINVAL
	AVERROR_ENOMEM      = avutil.AVERROR_ENOMEM
	AVERROR_ENOSYS      = avutil.AVERROR_ENOSYS
	AVERROR_INVALIDDATA = avutil.AVERROR_INVALIDDATA
)

// NewError creates an FFmpegError from an error code.
// Returns nil if code >= 0.
func NewError(code int32, op string) error {
	return avutil.NewError(code, op)
}

// ErrorCode returns the FFmpeg error code from an error, or 0 if not an FFmpeg error.
func ErrorCode(err error) int32 {
	return avutil.Code(err)
}

// IsInvalidData reports whether err is an invalid data error.
func IsInvalidData(err error) bool {
	return avutil.IsInvalidData(err)
}
