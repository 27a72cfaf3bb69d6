//go:build !ios && !android && (amd64 || arm64)

package avdevice

import (
	"log/slog"
	"runtime"
	"unsafe"

	"github.com/google/uuid"
	"github.com/obinnaokechukwu/avview/avutil"
	"github.com/obinnaokechukwu/avview/internal/cstr"
)

// AVDeviceInfoList field offsets.
//
//	AVDeviceInfo **devices;  // 0
//	int nb_devices;          // 8
//	int default_device;      // 12
const (
	offsetListDevices = 0
	offsetListCount   = 8
	offsetListDefault = 12
)

// AVDeviceInfo field offsets. media_types and nb_media_types exist from
// libavdevice 59 on.
//
//	char *device_name;            // 0
//	char *device_description;     // 8
//	enum AVMediaType *media_types // 16
//	int nb_media_types;           // 24
const (
	offsetInfoName         = 0
	offsetInfoDescription  = 8
	offsetInfoMediaTypes   = 16
	offsetInfoNbMediaTypes = 24
)

// DeviceInfo describes one device reported by a backend. It is a copy and
// stays valid after the list it came from is released.
type DeviceInfo struct {
	// Name is the backend-specific identifier passed back to FFmpeg when
	// opening the device, e.g. "/dev/video0" or "hw:0,0".
	Name string `json:"name" yaml:"name"`
	// Description is the human-readable label, possibly empty.
	Description string `json:"description" yaml:"description"`
	// MediaTypes lists what the device produces or accepts. Always empty
	// before FFmpeg 5.0.
	MediaTypes []avutil.MediaType `json:"media_types,omitempty" yaml:"media_types,omitempty"`
}

// Sources lists the capture sources of the input backend named deviceName
// (an input format name such as "v4l2" or "pulse"). RegisterAll must have
// been called for FFmpeg to find the backend.
//
// A deviceName with an embedded NUL byte is rejected with an invalid data
// error before FFmpeg is touched. Errors reported by FFmpeg are *avutil.Error
// values carrying the native code, e.g. ENOSYS for a backend that cannot
// enumerate.
func Sources(deviceName string) (*DeviceIter, error) {
	return list("avdevice_list_input_sources", deviceName, native.listInputSources)
}

// Sinks lists the output sinks of the output backend named deviceName.
// See Sources for the error behavior.
func Sinks(deviceName string) (*DeviceIter, error) {
	return list("avdevice_list_output_sinks", deviceName, native.listOutputSinks)
}

func list(op, deviceName string, call func(string) (unsafe.Pointer, int32)) (*DeviceIter, error) {
	if !cstr.Valid(deviceName) {
		return nil, avutil.InvalidDataError(op)
	}
	if err := native.load(); err != nil {
		return nil, err
	}

	ptr, ret := call(deviceName)
	if ret < 0 {
		if ptr != nil {
			native.freeList(&ptr)
		}
		return nil, avutil.NewError(ret, op)
	}
	return newDeviceIter(native, op, deviceName, ptr), nil
}

// DeviceIter walks a native device list. It owns the list and releases it
// exactly once: when the last entry has been returned, on Close, or when an
// abandoned iterator is garbage collected. It is forward-only and not safe
// for concurrent use.
type DeviceIter struct {
	api        deviceAPI
	id         uuid.UUID
	op         string
	backend    string
	list       unsafe.Pointer
	devices    []unsafe.Pointer
	next       int
	defaultIdx int
	mediaTypes bool
	released   bool
}

func newDeviceIter(api deviceAPI, op, backend string, list unsafe.Pointer) *DeviceIter {
	it := &DeviceIter{
		api:        api,
		id:         uuid.New(),
		op:         op,
		backend:    backend,
		list:       list,
		defaultIdx: -1,
		mediaTypes: api.hasMediaTypes(),
	}
	if list != nil {
		arr := *(*unsafe.Pointer)(unsafe.Add(list, offsetListDevices))
		n := int(*(*int32)(unsafe.Add(list, offsetListCount)))
		if arr != nil && n > 0 {
			it.devices = unsafe.Slice((*unsafe.Pointer)(arr), n)
		}
		if def := int(*(*int32)(unsafe.Add(list, offsetListDefault))); def >= 0 && def < len(it.devices) {
			it.defaultIdx = def
		}
	}

	slog.Debug("acquired device list", "list", it.id, "op", op, "backend", backend, "devices", len(it.devices))
	runtime.SetFinalizer(it, (*DeviceIter).finalize)
	return it
}

// ID identifies the list in debug logs.
func (it *DeviceIter) ID() uuid.UUID {
	return it.id
}

// Len returns the number of devices the backend reported.
func (it *DeviceIter) Len() int {
	return len(it.devices)
}

// DefaultIndex returns the position of the backend's default device,
// or -1 when it has none.
func (it *DeviceIter) DefaultIndex() int {
	return it.defaultIdx
}

// Next returns the next device. ok is false once the list is exhausted or
// closed; the native list is released at that point at the latest.
func (it *DeviceIter) Next() (info DeviceInfo, ok bool) {
	if it.released {
		return DeviceInfo{}, false
	}
	if it.next >= len(it.devices) {
		it.release("exhausted")
		return DeviceInfo{}, false
	}

	info = it.read(it.devices[it.next])
	it.next++
	if it.next == len(it.devices) {
		it.release("exhausted")
	}
	return info, true
}

// All drains the iterator.
func (it *DeviceIter) All() []DeviceInfo {
	out := make([]DeviceInfo, 0, len(it.devices)-it.next)
	for {
		info, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, info)
	}
}

// Close releases the native list. Safe to call more than once.
func (it *DeviceIter) Close() error {
	it.release("closed")
	return nil
}

func (it *DeviceIter) finalize() {
	it.release("finalized")
}

func (it *DeviceIter) release(reason string) {
	if it.released {
		return
	}
	it.released = true
	it.devices = it.devices[:0:0]
	if it.list != nil {
		it.api.freeList(&it.list)
		it.list = nil
	}
	runtime.SetFinalizer(it, nil)
	slog.Debug("released device list", "list", it.id, "op", it.op, "backend", it.backend, "reason", reason)
}

// read copies one AVDeviceInfo. FFmpeg guarantees device_name is set.
func (it *DeviceIter) read(p unsafe.Pointer) DeviceInfo {
	if p == nil {
		panic("avdevice: nil AVDeviceInfo in device list")
	}
	namePtr := *(*unsafe.Pointer)(unsafe.Add(p, offsetInfoName))
	if namePtr == nil {
		panic("avdevice: AVDeviceInfo without device_name")
	}

	info := DeviceInfo{
		Name:        cstr.GoString(namePtr),
		Description: cstr.At(p, offsetInfoDescription),
	}
	if it.mediaTypes {
		types := *(*unsafe.Pointer)(unsafe.Add(p, offsetInfoMediaTypes))
		n := int(*(*int32)(unsafe.Add(p, offsetInfoNbMediaTypes)))
		if types != nil && n > 0 {
			info.MediaTypes = append([]avutil.MediaType(nil), unsafe.Slice((*avutil.MediaType)(types), n)...)
		}
	}
	return info
}
