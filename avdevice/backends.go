//go:build !ios && !android && (amd64 || arm64)

package avdevice

import (
	"github.com/obinnaokechukwu/avview/internal/cstr"
)

// AVInputFormat and AVOutputFormat both start with name and long_name.
const (
	offsetFormatName     = 0
	offsetFormatLongName = 8
)

// Backend is a device input or output format compiled into libavdevice.
type Backend struct {
	Name     string `json:"name" yaml:"name"`
	LongName string `json:"long_name" yaml:"long_name"`
}

// InputVideoBackends lists the video capture backends, e.g. v4l2 or x11grab.
func InputVideoBackends() ([]Backend, error) {
	return backends(inputVideo)
}

// InputAudioBackends lists the audio capture backends, e.g. alsa or pulse.
func InputAudioBackends() ([]Backend, error) {
	return backends(inputAudio)
}

// OutputVideoBackends lists the video output backends, e.g. sdl or xv.
func OutputVideoBackends() ([]Backend, error) {
	return backends(outputVideo)
}

// OutputAudioBackends lists the audio output backends, e.g. alsa or pulse.
func OutputAudioBackends() ([]Backend, error) {
	return backends(outputAudio)
}

func backends(kind backendKind) ([]Backend, error) {
	if err := native.load(); err != nil {
		return nil, err
	}
	var out []Backend
	for p := native.nextBackend(kind, nil); p != nil; p = native.nextBackend(kind, p) {
		out = append(out, Backend{
			Name:     cstr.At(p, offsetFormatName),
			LongName: cstr.At(p, offsetFormatLongName),
		})
	}
	return out, nil
}
