//go:build !ios && !android && (amd64 || arm64)

// Package avdevice provides bindings to FFmpeg's libavdevice: backend
// registration, build introspection and enumeration of the capture sources
// and output sinks a backend (v4l2, alsa, pulse, avfoundation, dshow, ...)
// can see.
//
// Registration is explicit. Enumeration does not call RegisterAll, and
// FFmpeg will not find a backend by name until it has been called.
package avdevice

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/avview/internal/bindings"
	"github.com/obinnaokechukwu/avview/internal/platform"
)

var (
	libAVDevice uintptr
	initMu      sync.Mutex
	// initDone is set once every binding below is registered; readers that
	// do not go through Init check it before touching them.
	initDone    atomic.Bool

	registerOnce sync.Once

	avdeviceRegisterAll     func()
	avdeviceVersion         func() uint32
	avdeviceConfiguration   func() string
	avdeviceLicense         func() string
	avdeviceListInputSource func(device unsafe.Pointer, name string, opts unsafe.Pointer, list *unsafe.Pointer) int32
	avdeviceListOutputSinks func(device unsafe.Pointer, name string, opts unsafe.Pointer, list *unsafe.Pointer) int32
	avdeviceFreeListDevices func(list *unsafe.Pointer)

	avInputVideoDeviceNext  func(prev unsafe.Pointer) unsafe.Pointer
	avInputAudioDeviceNext  func(prev unsafe.Pointer) unsafe.Pointer
	avOutputVideoDeviceNext func(prev unsafe.Pointer) unsafe.Pointer
	avOutputAudioDeviceNext func(prev unsafe.Pointer) unsafe.Pointer
)

// Init loads libavdevice, together with the libavcodec and libavformat it
// links against, and registers the function bindings. It is safe to call
// repeatedly; after a failure the next call tries again.
func Init() error {
	initMu.Lock()
	defer initMu.Unlock()
	if initDone.Load() {
		return nil
	}

	// Dependency order, so RTLD_GLOBAL symbols are in place for avdevice.
	for _, lib := range []platform.Library{platform.AVCodec, platform.AVFormat} {
		if _, err := bindings.LoadLibrary(lib); err != nil {
			return fmt.Errorf("avdevice: failed to load lib%s: %w", lib.Name, err)
		}
	}
	lib, err := bindings.LoadLibrary(platform.AVDevice)
	if err != nil {
		return fmt.Errorf("avdevice: failed to load library: %w", err)
	}
	libAVDevice = lib

	purego.RegisterLibFunc(&avdeviceRegisterAll, libAVDevice, "avdevice_register_all")
	purego.RegisterLibFunc(&avdeviceVersion, libAVDevice, "avdevice_version")
	purego.RegisterLibFunc(&avdeviceConfiguration, libAVDevice, "avdevice_configuration")
	purego.RegisterLibFunc(&avdeviceLicense, libAVDevice, "avdevice_license")
	purego.RegisterLibFunc(&avdeviceListInputSource, libAVDevice, "avdevice_list_input_sources")
	purego.RegisterLibFunc(&avdeviceListOutputSinks, libAVDevice, "avdevice_list_output_sinks")
	purego.RegisterLibFunc(&avdeviceFreeListDevices, libAVDevice, "avdevice_free_list_devices")

	purego.RegisterLibFunc(&avInputVideoDeviceNext, libAVDevice, "av_input_video_device_next")
	purego.RegisterLibFunc(&avInputAudioDeviceNext, libAVDevice, "av_input_audio_device_next")
	purego.RegisterLibFunc(&avOutputVideoDeviceNext, libAVDevice, "av_output_video_device_next")
	purego.RegisterLibFunc(&avOutputAudioDeviceNext, libAVDevice, "av_output_audio_device_next")

	initDone.Store(true)
	return nil
}

// IsLoaded reports whether libavdevice has been loaded.
func IsLoaded() bool {
	return initDone.Load()
}

// RegisterAll makes every device backend compiled into libavdevice visible
// to FFmpeg's format lookup. Loading the library is the only thing that can
// fail; avdevice_register_all itself runs at most once per process.
func RegisterAll() error {
	if err := native.load(); err != nil {
		return err
	}
	registerOnce.Do(native.registerAll)
	return nil
}

// Version returns the linked libavdevice version (major<<16 | minor<<8 | micro),
// or 0 when the library is not loaded.
func Version() uint32 {
	if !initDone.Load() {
		return 0
	}
	return avdeviceVersion()
}

// Configuration returns the configure flags libavdevice was built with,
// or "" when the library is not loaded.
func Configuration() string {
	if !initDone.Load() {
		return ""
	}
	return avdeviceConfiguration()
}

// License returns the license libavdevice was built under,
// or "" when the library is not loaded.
func License() string {
	if !initDone.Load() {
		return ""
	}
	return avdeviceLicense()
}
