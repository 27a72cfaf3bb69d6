//go:build !ios && !android && (amd64 || arm64)

// Package avview provides a cgo-free view of two corners of FFmpeg: the
// capture and output devices libavdevice can enumerate, and the side data
// (HDR metadata, display matrices, closed captions, ...) attached to
// decoded frames.
//
// FFmpeg is loaded at runtime with purego. Most programs only need this
// package; the avutil and avdevice packages expose the lower level.
package avview

import (
	"fmt"

	"github.com/obinnaokechukwu/avview/avdevice"
	"github.com/obinnaokechukwu/avview/avutil"
	"github.com/obinnaokechukwu/avview/internal/bindings"
)

// Init loads libavutil. It is called implicitly by the first operation that
// needs FFmpeg, but can be called explicitly to check for errors.
// It is safe to call multiple times.
func Init() error {
	return avutil.Init()
}

// SetLibraryPaths adds directories searched for the FFmpeg shared libraries
// ahead of the platform defaults. It must be called before Init to affect
// libavutil.
func SetLibraryPaths(dirs ...string) {
	bindings.SetSearchPaths(dirs)
}

// IsLoaded returns true if FFmpeg libraries have been successfully loaded.
func IsLoaded() bool {
	return bindings.IsLoaded()
}

// Versions holds the packed versions (major<<16 | minor<<8 | micro) of the
// loaded libraries. A library that is not loaded reports 0.
type Versions struct {
	AVUtil   uint32 `json:"avutil" yaml:"avutil"`
	AVDevice uint32 `json:"avdevice" yaml:"avdevice"`
}

// Version returns the versions of the loaded libraries.
func Version() Versions {
	return Versions{
		AVUtil:   avutil.Version(),
		AVDevice: avdevice.Version(),
	}
}

// VersionString formats a packed library version as "major.minor.micro".
func VersionString(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", v>>16, (v>>8)&0xFF, v&0xFF)
}

// LibraryPath returns the file a library ("avutil", "avdevice", ...) was
// loaded from, or "" if it is not loaded.
func LibraryPath(name string) string {
	return bindings.LoadedPath(name)
}

// Re-export common types for convenience
type (
	// SideData is a view of one side-data block of a frame.
	SideData = avutil.SideData

	// SideDataType identifies the category of a side-data block.
	SideDataType = avutil.SideDataType

	// Metadata is a copied FFmpeg dictionary.
	Metadata = avutil.Metadata

	// DeviceInfo describes one enumerated device.
	DeviceInfo = avdevice.DeviceInfo

	// DeviceIter walks an enumerated device list.
	DeviceIter = avdevice.DeviceIter

	// Backend is a device input or output format.
	Backend = avdevice.Backend

	// Rational represents a rational number (fraction).
	Rational = avutil.Rational

	// MediaType represents stream types (video, audio, etc.).
	MediaType = avutil.MediaType

	// LogLevel is an FFmpeg log level.
	LogLevel = avutil.LogLevel
)

// Re-export common constants
const (
	MediaTypeUnknown = avutil.MediaTypeUnknown
	MediaTypeVideo   = avutil.MediaTypeVideo
	MediaTypeAudio   = avutil.MediaTypeAudio

	LogQuiet   = avutil.LogQuiet
	LogError   = avutil.LogError
	LogWarning = avutil.LogWarning
	LogInfo    = avutil.LogInfo
	LogDebug   = avutil.LogDebug
)

// NewRational creates a new rational number.
func NewRational(num, den int32) Rational {
	return avutil.NewRational(num, den)
}

// SetFFmpegLogLevel sets the level of the messages FFmpeg itself prints to
// stderr.
func SetFFmpegLogLevel(level LogLevel) error {
	if err := Init(); err != nil {
		return err
	}
	return avutil.SetLogLevel(level)
}
