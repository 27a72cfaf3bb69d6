//go:build !ios && !android && (amd64 || arm64)

package avdevice

import "unsafe"

// backendKind selects one of the four av_*_device_next iterators.
type backendKind int

const (
	inputVideo backendKind = iota
	inputAudio
	outputVideo
	outputAudio
)

func (k backendKind) String() string {
	switch k {
	case inputVideo:
		return "input video"
	case inputAudio:
		return "input audio"
	case outputVideo:
		return "output video"
	case outputAudio:
		return "output audio"
	default:
		return "unknown"
	}
}

// deviceAPI is the slice of libavdevice the enumerator calls through.
// Tests substitute an implementation backed by Go memory.
type deviceAPI interface {
	load() error
	registerAll()
	listInputSources(name string) (list unsafe.Pointer, ret int32)
	listOutputSinks(name string) (list unsafe.Pointer, ret int32)
	freeList(list *unsafe.Pointer)
	// hasMediaTypes reports whether AVDeviceInfo carries media_types
	// (libavdevice 59 and later).
	hasMediaTypes() bool
	nextBackend(kind backendKind, prev unsafe.Pointer) unsafe.Pointer
}

var native deviceAPI = ffmpegAPI{}

type ffmpegAPI struct{}

func (ffmpegAPI) load() error { return Init() }

func (ffmpegAPI) registerAll() { avdeviceRegisterAll() }

func (ffmpegAPI) listInputSources(name string) (unsafe.Pointer, int32) {
	var list unsafe.Pointer
	ret := avdeviceListInputSource(nil, name, nil, &list)
	return list, ret
}

func (ffmpegAPI) listOutputSinks(name string) (unsafe.Pointer, int32) {
	var list unsafe.Pointer
	ret := avdeviceListOutputSinks(nil, name, nil, &list)
	return list, ret
}

func (ffmpegAPI) freeList(list *unsafe.Pointer) {
	avdeviceFreeListDevices(list)
}

func (ffmpegAPI) hasMediaTypes() bool {
	return Version()>>16 >= 59
}

func (ffmpegAPI) nextBackend(kind backendKind, prev unsafe.Pointer) unsafe.Pointer {
	switch kind {
	case inputVideo:
		return avInputVideoDeviceNext(prev)
	case inputAudio:
		return avInputAudioDeviceNext(prev)
	case outputVideo:
		return avOutputVideoDeviceNext(prev)
	case outputAudio:
		return avOutputAudioDeviceNext(prev)
	}
	return nil
}
