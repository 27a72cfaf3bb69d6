//go:build !ios && !android && (amd64 || arm64)

package avutil

import (
	"github.com/obinnaokechukwu/avview/internal/bindings"
)

// FrameSideData returns every side-data block attached to frame, in the order
// FFmpeg stores them. The views borrow from frame; see SideData.
func FrameSideData(frame Frame) ([]SideData, error) {
	if frame == nil {
		return nil, nil
	}
	l, err := sideDataLayout()
	if err != nil {
		return nil, err
	}
	return readSideData(frame, l), nil
}

// FrameGetSideData returns the first block of type t attached to frame.
func FrameGetSideData(frame Frame, t SideDataType) (SideData, bool) {
	if frame == nil || avFrameGetSideData == nil {
		return SideData{}, false
	}
	tag, ok := t.Tag()
	if !ok {
		return SideData{}, false
	}
	p := avFrameGetSideData(frame, tag)
	if p == nil {
		return SideData{}, false
	}
	return WrapSideData(p), true
}

// FrameNewSideData attaches a zero-filled block of size bytes and type t to
// frame and returns a view of it. SideDataOther values and categories the
// loaded FFmpeg does not define are refused with an EINVAL error, since FFmpeg
// derives allocation properties from the type.
func FrameNewSideData(frame Frame, t SideDataType, size int) (SideData, error) {
	if avFrameNewSideData == nil {
		return SideData{}, bindings.ErrNotLoaded
	}
	if frame == nil || size < 0 || t.IsOther() {
		return SideData{}, NewError(AVERROR_EINVAL, "av_frame_new_side_data")
	}
	tag, ok := t.Tag()
	if !ok {
		return SideData{}, NewError(AVERROR_EINVAL, "av_frame_new_side_data")
	}
	p := avFrameNewSideData(frame, tag, uintptr(size))
	if p == nil {
		return SideData{}, NewError(AVERROR_ENOMEM, "av_frame_new_side_data")
	}
	return WrapSideData(p), nil
}

// FrameAddSideData attaches a copy of payload as a new block of type t.
func FrameAddSideData(frame Frame, t SideDataType, payload []byte) (SideData, error) {
	sd, err := FrameNewSideData(frame, t, len(payload))
	if err != nil {
		return SideData{}, err
	}
	copy(sd.Data(), payload)
	return sd, nil
}

// FrameRemoveSideData frees every block of type t attached to frame.
// Views of those blocks become invalid.
func FrameRemoveSideData(frame Frame, t SideDataType) {
	if frame == nil || avFrameRemoveSideData == nil {
		return
	}
	if tag, ok := t.Tag(); ok {
		avFrameRemoveSideData(frame, tag)
	}
}
