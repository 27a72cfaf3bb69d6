//go:build !ios && !android && (amd64 || arm64)

package avutil

import (
	"errors"
	"fmt"
	"syscall"
)

// Common FFmpeg error codes (AVERROR values)
const (
	AVERROR_EOF                int32 = -541478725             // End of file
	AVERROR_EAGAIN             int32 = -int32(syscall.EAGAIN) // Resource temporarily unavailable
	AVERROR_EINVAL             int32 = -int32(syscall.EINVAL) // Invalid argument
	AVERROR_ENOMEM             int32 = -int32(syscall.ENOMEM) // Out of memory
	AVERROR_ENOSYS             int32 = -int32(syscall.ENOSYS) // Function not implemented
	AVERROR_EIO                int32 = -int32(syscall.EIO)    // I/O error
	AVERROR_BSF_NOT_FOUND      int32 = -1179861752            // Bitstream filter not found
	AVERROR_BUG                int32 = -558323010             // Bug detected
	AVERROR_BUFFER_TOO_SMALL   int32 = -1397118274            // Buffer too small
	AVERROR_DECODER_NOT_FOUND  int32 = -1128613112            // Decoder not found
	AVERROR_DEMUXER_NOT_FOUND  int32 = -1296385272            // Demuxer not found
	AVERROR_ENCODER_NOT_FOUND  int32 = -1129203192            // Encoder not found
	AVERROR_EXIT               int32 = -1414092869            // Immediate exit requested
	AVERROR_EXTERNAL           int32 = -542398533             // Generic error in an external library
	AVERROR_FILTER_NOT_FOUND   int32 = -1279870712            // Filter not found
	AVERROR_INVALIDDATA        int32 = -1094995529            // Invalid data
	AVERROR_MUXER_NOT_FOUND    int32 = -1481985528            // Muxer not found
	AVERROR_OPTION_NOT_FOUND   int32 = -1414549496            // Option not found
	AVERROR_PATCHWELCOME       int32 = -1163346256            // Not yet implemented in FFmpeg
	AVERROR_PROTOCOL_NOT_FOUND int32 = -1330794744            // Protocol not found
	AVERROR_STREAM_NOT_FOUND   int32 = -1381258232            // Stream not found
	AVERROR_UNKNOWN            int32 = -1313558101            // Unknown error
)

// Sentinel errors matched with errors.Is against any *Error carrying the
// corresponding code.
var (
	ErrEOF              = errors.New("avview: end of file")
	ErrAgain            = errors.New("avview: resource temporarily unavailable")
	ErrInvalidArgument  = errors.New("avview: invalid argument")
	ErrNoMemory         = errors.New("avview: out of memory")
	ErrNotImplemented   = errors.New("avview: function not implemented")
	ErrIO               = errors.New("avview: i/o error")
	ErrInvalidData      = errors.New("avview: invalid data")
	ErrBug              = errors.New("avview: internal bug")
	ErrExit             = errors.New("avview: immediate exit requested")
	ErrExternal         = errors.New("avview: external library error")
	ErrDemuxerNotFound  = errors.New("avview: demuxer not found")
	ErrMuxerNotFound    = errors.New("avview: muxer not found")
	ErrOptionNotFound   = errors.New("avview: option not found")
	ErrProtocolNotFound = errors.New("avview: protocol not found")
	ErrStreamNotFound   = errors.New("avview: stream not found")
	ErrUnknown          = errors.New("avview: unknown error")
)

var sentinels = map[int32]error{
	AVERROR_EOF:                ErrEOF,
	AVERROR_EAGAIN:             ErrAgain,
	AVERROR_EINVAL:             ErrInvalidArgument,
	AVERROR_ENOMEM:             ErrNoMemory,
	AVERROR_ENOSYS:             ErrNotImplemented,
	AVERROR_EIO:                ErrIO,
	AVERROR_INVALIDDATA:        ErrInvalidData,
	AVERROR_BUG:                ErrBug,
	AVERROR_EXIT:               ErrExit,
	AVERROR_EXTERNAL:           ErrExternal,
	AVERROR_DEMUXER_NOT_FOUND:  ErrDemuxerNotFound,
	AVERROR_MUXER_NOT_FOUND:    ErrMuxerNotFound,
	AVERROR_OPTION_NOT_FOUND:   ErrOptionNotFound,
	AVERROR_PROTOCOL_NOT_FOUND: ErrProtocolNotFound,
	AVERROR_STREAM_NOT_FOUND:   ErrStreamNotFound,
	AVERROR_UNKNOWN:            ErrUnknown,
}

// invalidDataMessage is FFmpeg's own text for AVERROR_INVALIDDATA.
const invalidDataMessage = "Invalid data found when processing input"

// Error represents an FFmpeg error.
type Error struct {
	Code    int32  // Raw FFmpeg error code
	Message string // Human-readable message
	Op      string // Operation that failed
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("ffmpeg %s: %s (code %d)", e.Op, e.Message, e.Code)
}

// Is reports whether target is the sentinel for e's code.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Code]
	return ok && s == target
}

// Errno returns the POSIX errno wrapped by e, or 0 if the code is an FFmpeg tag.
func (e *Error) Errno() syscall.Errno {
	if e.Code < 0 && e.Code > -4096 {
		return syscall.Errno(-e.Code)
	}
	return 0
}

// NewError creates a new FFmpeg error from an error code.
// Returns nil for non-negative codes.
func NewError(code int32, op string) error {
	if code >= 0 {
		return nil
	}
	return &Error{
		Code:    code,
		Message: ErrorString(code),
		Op:      op,
	}
}

// InvalidDataError reports caller input FFmpeg cannot accept, such as a string
// with an embedded NUL byte. It does not call into FFmpeg.
func InvalidDataError(op string) error {
	return &Error{
		Code:    AVERROR_INVALIDDATA,
		Message: invalidDataMessage,
		Op:      op,
	}
}

// IsEOF returns true if the error indicates end of file.
func IsEOF(err error) bool {
	return errors.Is(err, ErrEOF)
}

// IsAgain returns true if the error indicates to try again (EAGAIN).
func IsAgain(err error) bool {
	return errors.Is(err, ErrAgain)
}

// IsInvalidData returns true if the error indicates invalid data.
func IsInvalidData(err error) bool {
	return errors.Is(err, ErrInvalidData)
}

// Code returns the FFmpeg error code from an error, or 0 if not an FFmpeg error.
func Code(err error) int32 {
	var ffErr *Error
	if errors.As(err, &ffErr) {
		return ffErr.Code
	}
	return 0
}

// Tag packs four characters the way FFmpeg's FFERRTAG does.
func Tag(a, b, c, d byte) int32 {
	return -int32(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}
