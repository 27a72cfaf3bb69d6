//go:build !ios && !android && (amd64 || arm64)

package avview

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/obinnaokechukwu/avview/avdevice"
)

// DeviceType represents a capture device type.
type DeviceType int

const (
	// DeviceTypeVideo represents video capture devices (cameras, capture cards).
	DeviceTypeVideo DeviceType = iota
	// DeviceTypeAudio represents audio capture devices (microphones).
	DeviceTypeAudio
)

func (t DeviceType) String() string {
	switch t {
	case DeviceTypeVideo:
		return "video"
	case DeviceTypeAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// ListDevices returns the capture devices of the given type, as seen by the
// platform's default backend (v4l2/alsa, avfoundation or dshow).
func ListDevices(deviceType DeviceType) ([]DeviceInfo, error) {
	backend := DefaultBackend(deviceType)
	if backend == "" {
		return nil, ErrUnsupportedPlatform
	}
	return ListSources(backend)
}

// ListSources registers the device backends and returns every capture
// source the named input backend reports.
func ListSources(backend string) ([]DeviceInfo, error) {
	if err := avdevice.RegisterAll(); err != nil {
		return nil, fmt.Errorf("avview: device enumeration requires libavdevice: %w", err)
	}
	it, err := avdevice.Sources(backend)
	if err != nil {
		return nil, fmt.Errorf("avview: listing %s sources: %w", backend, err)
	}
	defer it.Close()
	return it.All(), nil
}

// ListSinks registers the device backends and returns every output sink the
// named output backend reports.
func ListSinks(backend string) ([]DeviceInfo, error) {
	if err := avdevice.RegisterAll(); err != nil {
		return nil, fmt.Errorf("avview: device enumeration requires libavdevice: %w", err)
	}
	it, err := avdevice.Sinks(backend)
	if err != nil {
		return nil, fmt.Errorf("avview: listing %s sinks: %w", backend, err)
	}
	defer it.Close()
	return it.All(), nil
}

// DefaultBackend returns the FFmpeg input format used for capture of the
// given type on the current platform, or "" when there is none.
func DefaultBackend(deviceType DeviceType) string {
	return inputFormatFor(runtime.GOOS, deviceType)
}

func inputFormatFor(goos string, deviceType DeviceType) string {
	switch goos {
	case "linux":
		if deviceType == DeviceTypeVideo {
			return "v4l2" // Video4Linux2
		}
		return "alsa" // ALSA audio
	case "darwin":
		return "avfoundation" // macOS uses avfoundation for both audio and video
	case "windows":
		return "dshow" // DirectShow for Windows
	default:
		return ""
	}
}

// ScreenBackend returns the FFmpeg input format for screen capture on the
// current platform, or "" when there is none.
func ScreenBackend() string {
	switch runtime.GOOS {
	case "linux":
		return "x11grab"
	case "darwin":
		return "avfoundation"
	case "windows":
		return "gdigrab"
	default:
		return ""
	}
}

// DeviceURL returns the input URL FFmpeg expects for a device name on the
// current platform, e.g. "video=HD Webcam" for dshow.
func DeviceURL(device string, deviceType DeviceType) string {
	return deviceURLFor(runtime.GOOS, device, deviceType)
}

func deviceURLFor(goos, device string, deviceType DeviceType) string {
	switch goos {
	case "darwin":
		// avfoundation: "video_index_or_name:audio_index_or_name"
		if deviceType == DeviceTypeVideo {
			return device + ":"
		}
		return ":" + device
	case "windows":
		// dshow: "video=device_name" or "audio=device_name"
		if deviceType == DeviceTypeVideo {
			return "video=" + device
		}
		return "audio=" + device
	default:
		// v4l2 and alsa take the device path directly.
		return device
	}
}

// DeviceIndexURL is DeviceURL for backends that address devices by position,
// such as avfoundation.
func DeviceIndexURL(index int, deviceType DeviceType) string {
	return DeviceURL(strconv.Itoa(index), deviceType)
}
