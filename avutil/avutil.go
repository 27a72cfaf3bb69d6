//go:build !ios && !android && (amd64 || arm64)

// Package avutil provides bindings to the parts of FFmpeg's libavutil that
// avview needs: frames and their side data, dictionaries, error strings,
// log level and build introspection.
package avutil

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/avview/internal/bindings"
	"github.com/obinnaokechukwu/avview/internal/cstr"
)

// Frame is an opaque FFmpeg AVFrame pointer.
type Frame = unsafe.Pointer

// Dictionary is an opaque FFmpeg AVDictionary pointer.
type Dictionary = unsafe.Pointer

// Function bindings - registered when init() is called
var (
	avutilConfiguration func() string
	avutilLicense       func() string

	avFrameAlloc func() unsafe.Pointer
	avFrameFree  func(frame *unsafe.Pointer)

	avFrameNewSideData    func(frame unsafe.Pointer, typ int32, size uintptr) unsafe.Pointer
	avFrameGetSideData    func(frame unsafe.Pointer, typ int32) unsafe.Pointer
	avFrameRemoveSideData func(frame unsafe.Pointer, typ int32)
	avFrameSideDataName   func(typ int32) unsafe.Pointer

	avDictSet   func(pm *unsafe.Pointer, key, value string, flags int32) int32
	avDictGet   func(m unsafe.Pointer, key string, prev unsafe.Pointer, flags int32) unsafe.Pointer
	avDictCount func(m unsafe.Pointer) int32
	avDictFree  func(pm *unsafe.Pointer)

	avStrerror func(errnum int32, errbuf unsafe.Pointer, errbufSize uintptr) int32

	avLogSetLevel func(level int32)
	avLogGetLevel func() int32

	bindMu             sync.Mutex
	bindingsRegistered bool
)

func init() {
	_ = registerBindings()
}

// Init loads libavutil if that did not already happen at package
// initialization and binds its functions. Call bindings.SetSearchPaths first
// to look in extra directories.
func Init() error {
	return registerBindings()
}

func registerBindings() error {
	bindMu.Lock()
	defer bindMu.Unlock()
	if bindingsRegistered {
		return nil
	}

	if err := bindings.Load(); err != nil {
		return err // functions stay nil and report ErrNotLoaded
	}

	lib := bindings.LibAVUtil()
	if lib == 0 {
		return bindings.ErrNotLoaded
	}

	purego.RegisterLibFunc(&avutilConfiguration, lib, "avutil_configuration")
	purego.RegisterLibFunc(&avutilLicense, lib, "avutil_license")

	purego.RegisterLibFunc(&avFrameAlloc, lib, "av_frame_alloc")
	purego.RegisterLibFunc(&avFrameFree, lib, "av_frame_free")

	purego.RegisterLibFunc(&avFrameNewSideData, lib, "av_frame_new_side_data")
	purego.RegisterLibFunc(&avFrameGetSideData, lib, "av_frame_get_side_data")
	purego.RegisterLibFunc(&avFrameRemoveSideData, lib, "av_frame_remove_side_data")
	purego.RegisterLibFunc(&avFrameSideDataName, lib, "av_frame_side_data_name")

	purego.RegisterLibFunc(&avDictSet, lib, "av_dict_set")
	purego.RegisterLibFunc(&avDictGet, lib, "av_dict_get")
	purego.RegisterLibFunc(&avDictCount, lib, "av_dict_count")
	purego.RegisterLibFunc(&avDictFree, lib, "av_dict_free")

	purego.RegisterLibFunc(&avStrerror, lib, "av_strerror")

	purego.RegisterLibFunc(&avLogSetLevel, lib, "av_log_set_level")
	purego.RegisterLibFunc(&avLogGetLevel, lib, "av_log_get_level")

	activeTable = TagTableFor(bindings.AVUtilMajor())
	sizeIsSizeT = bindings.AVUtilMajor() >= 57

	bindingsRegistered = true
	return nil
}

// Version returns the linked libavutil version (major<<16 | minor<<8 | micro),
// or 0 when FFmpeg is not loaded.
func Version() uint32 {
	return bindings.AVUtilVersion()
}

// Configuration returns the configure flags libavutil was built with.
func Configuration() string {
	if avutilConfiguration == nil {
		return ""
	}
	return avutilConfiguration()
}

// License returns the license libavutil was built under.
func License() string {
	if avutilLicense == nil {
		return ""
	}
	return avutilLicense()
}

// FrameAlloc allocates an AVFrame and returns a pointer to it.
// The returned frame must be freed with FrameFree when no longer needed.
func FrameAlloc() Frame {
	if avFrameAlloc == nil {
		return nil
	}
	return avFrameAlloc()
}

// FrameFree frees an AVFrame, including its side data, and sets the pointer to nil.
// Safe to call with nil pointer.
func FrameFree(frame *Frame) {
	if frame == nil || *frame == nil || avFrameFree == nil {
		return
	}
	avFrameFree(frame)
	*frame = nil
}

// DictSet sets a key-value pair in a dictionary.
func DictSet(dict *Dictionary, key, value string, flags int32) error {
	if avDictSet == nil {
		return bindings.ErrNotLoaded
	}
	if !cstr.Valid(key) || !cstr.Valid(value) {
		return InvalidDataError("av_dict_set")
	}
	ret := avDictSet(dict, key, value, flags)
	if ret < 0 {
		return NewError(ret, "av_dict_set")
	}
	return nil
}

// DictCount returns the number of entries in a dictionary.
func DictCount(dict Dictionary) int {
	if dict == nil || avDictCount == nil {
		return 0
	}
	return int(avDictCount(dict))
}

// DictFree frees a dictionary.
func DictFree(dict *Dictionary) {
	if dict == nil || *dict == nil || avDictFree == nil {
		return
	}
	avDictFree(dict)
}

// ErrorString returns a human-readable error message for an FFmpeg error code.
func ErrorString(errnum int32) string {
	if avStrerror == nil {
		if errnum == AVERROR_INVALIDDATA {
			return invalidDataMessage
		}
		return "unknown error (FFmpeg not loaded)"
	}

	buf := make([]byte, 256)
	avStrerror(errnum, unsafe.Pointer(&buf[0]), uintptr(len(buf)))
	return cstr.GoString(unsafe.Pointer(&buf[0]))
}
