//go:build !ios && !android && (amd64 || arm64)

package avutil

import (
	"unsafe"
)

// AVFrameSideData field offsets. The struct has kept this prefix since FFmpeg 4:
//
//	enum AVFrameSideDataType type;  // 0
//	uint8_t *data;                  // 8
//	size_t size;                    // 16 (int before avutil 57)
//	AVDictionary *metadata;         // 24
//	AVBufferRef *buf;               // 32
const (
	offsetSideDataType     = 0
	offsetSideDataData     = 8
	offsetSideDataSize     = 16
	offsetSideDataMetadata = 24
)

// SideData is a view over one AVFrameSideData block attached to a frame.
//
// The view borrows from the frame that owns the block: it is valid only while
// that frame is alive and its side data is not modified (no FrameFree,
// FrameRemoveSideData or FrameNewSideData on the owner). Data returns memory
// owned by FFmpeg under the same rule; use Bytes or Metadata for copies that
// outlive the frame.
type SideData struct {
	ptr unsafe.Pointer
	// owner keeps a garbage-collected owner of the frame (one that frees it
	// from a finalizer) reachable for as long as the view is.
	owner any
}

// WrapSideData wraps a native AVFrameSideData pointer.
// A nil pointer is a contract violation and panics.
func WrapSideData(ptr unsafe.Pointer) SideData {
	if ptr == nil {
		panic("avutil: nil AVFrameSideData pointer")
	}
	return SideData{ptr: ptr}
}

// KeepOwner returns a copy of sd that keeps owner reachable. Types that free
// their AVFrame from a finalizer attach themselves to the views they hand out.
// A slice returned by Data does not keep the owner alive on its own; hold the
// view, or the owner, while using it.
func (sd SideData) KeepOwner(owner any) SideData {
	sd.owner = owner
	return sd
}

// Owner returns the value set by KeepOwner, or nil.
func (sd SideData) Owner() any {
	return sd.owner
}

// Raw returns the underlying AVFrameSideData pointer.
func (sd SideData) Raw() unsafe.Pointer {
	return sd.ptr
}

// Kind classifies the block. It never fails; tags avview does not name are
// returned as SideDataOther.
func (sd SideData) Kind() SideDataType {
	return SideDataTypeFromTag(sd.tag())
}

func (sd SideData) tag() int32 {
	return *(*int32)(unsafe.Pointer(uintptr(sd.ptr) + offsetSideDataType))
}

// Size returns the payload length in bytes as declared by the native record.
func (sd SideData) Size() int {
	p := unsafe.Pointer(uintptr(sd.ptr) + offsetSideDataSize)
	if sizeIsSizeT {
		return int(*(*uint64)(p))
	}
	return int(*(*int32)(p))
}

// Data returns the payload without copying. The slice aliases FFmpeg memory
// and must not be used after the owning frame is freed or its side data is
// changed.
func (sd SideData) Data() []byte {
	data := *(*unsafe.Pointer)(unsafe.Pointer(uintptr(sd.ptr) + offsetSideDataData))
	size := sd.Size()
	if data == nil || size <= 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(data), size)
}

// Bytes returns a copy of the payload.
func (sd SideData) Bytes() []byte {
	return append([]byte(nil), sd.Data()...)
}

// Metadata returns a copy of the block's dictionary. The result is empty,
// never nil, when the block carries no dictionary.
func (sd SideData) Metadata() Metadata {
	dict := *(*unsafe.Pointer)(unsafe.Pointer(uintptr(sd.ptr) + offsetSideDataMetadata))
	return DictToMetadata(dict)
}
