//go:build !ios && !android && (amd64 || arm64)

package avview

import (
	"runtime"
	"unsafe"

	"github.com/obinnaokechukwu/avview/avutil"
)

// Frame owns an FFmpeg AVFrame and gives typed access to its side data.
//
// A Frame is not safe for concurrent use. SideData views it returns are
// valid until the next AddSideData, RemoveSideData or Free on the frame. Each
// view keeps its Frame reachable, so an owned frame is not finalized while a
// view is in use; a slice from SideData.Data does not, so keep the view or the
// Frame alive while reading it.
type Frame struct {
	ptr   avutil.Frame
	owned bool
}

// NewFrame allocates an empty frame. Call Free when done; an unreachable
// frame is also freed by the garbage collector.
func NewFrame() (*Frame, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	ptr := avutil.FrameAlloc()
	if ptr == nil {
		return nil, avutil.NewError(avutil.AVERROR_ENOMEM, "av_frame_alloc")
	}
	f := &Frame{ptr: ptr, owned: true}
	runtime.SetFinalizer(f, (*Frame).Free)
	return f, nil
}

// WrapFrame wraps an AVFrame owned by the caller, for instance one filled by
// a decoder. Free on the result only forgets the pointer.
func WrapFrame(ptr unsafe.Pointer) *Frame {
	if ptr == nil {
		return nil
	}
	return &Frame{ptr: ptr}
}

// Raw returns the underlying AVFrame pointer, or nil after Free.
func (f *Frame) Raw() unsafe.Pointer {
	if f == nil {
		return nil
	}
	return f.ptr
}

// Free releases the frame and all of its side data if the Frame owns it.
// Safe to call more than once.
func (f *Frame) Free() {
	if f == nil || f.ptr == nil {
		return
	}
	if f.owned {
		avutil.FrameFree(&f.ptr)
		runtime.SetFinalizer(f, nil)
	}
	f.ptr = nil
}

// SideData returns every side-data block of the frame in FFmpeg's order.
func (f *Frame) SideData() ([]SideData, error) {
	if f == nil || f.ptr == nil {
		return nil, ErrClosed
	}
	blocks, err := avutil.FrameSideData(f.ptr)
	for i := range blocks {
		blocks[i] = blocks[i].KeepOwner(f)
	}
	runtime.KeepAlive(f)
	return blocks, err
}

// SideDataOfType returns the first block of type t, if any.
func (f *Frame) SideDataOfType(t SideDataType) (SideData, bool) {
	if f == nil || f.ptr == nil {
		return SideData{}, false
	}
	sd, ok := avutil.FrameGetSideData(f.ptr, t)
	runtime.KeepAlive(f)
	if !ok {
		return SideData{}, false
	}
	return sd.KeepOwner(f), true
}

// AddSideData attaches a copy of payload as a new block of type t.
func (f *Frame) AddSideData(t SideDataType, payload []byte) (SideData, error) {
	if f == nil || f.ptr == nil {
		return SideData{}, ErrClosed
	}
	sd, err := avutil.FrameAddSideData(f.ptr, t, payload)
	runtime.KeepAlive(f)
	if err != nil {
		return SideData{}, err
	}
	return sd.KeepOwner(f), nil
}

// RemoveSideData removes every block of type t.
func (f *Frame) RemoveSideData(t SideDataType) {
	if f == nil || f.ptr == nil {
		return
	}
	avutil.FrameRemoveSideData(f.ptr, t)
	runtime.KeepAlive(f)
}
