//go:build !ios && !android && (amd64 || arm64)

package avutil

import (
	"encoding/binary"
	"errors"
	"log/slog"
	"sync"
	"unsafe"

	"github.com/obinnaokechukwu/avview/internal/bindings"
)

// ErrLayoutUnknown is returned when the position of the side-data array
// inside AVFrame could not be determined for the loaded FFmpeg.
var ErrLayoutUnknown = errors.New("avview: AVFrame side data layout unknown")

// frameLayout locates AVFrame.side_data (AVFrameSideData **) and
// AVFrame.nb_side_data (int), which always directly follows it.
type frameLayout struct {
	sideData uintptr
}

func (l frameLayout) nbSideData() uintptr {
	return l.sideData + 8
}

// probeWindow bounds how much of a freshly allocated AVFrame is inspected.
// side_data sits at 368 on FFmpeg 4.x and lower on every later release, and
// sizeof(AVFrame) exceeds the window on all of them.
const probeWindow = 384

var (
	layoutMu   sync.Mutex
	layoutDone bool
	layout     frameLayout
	layoutErr  error
)

// sideDataLayout returns the probed layout, probing on first use. Only a
// finished probe (a layout or ErrLayoutUnknown) is cached; a missing library
// or a failed allocation is reported and the next call probes again.
func sideDataLayout() (frameLayout, error) {
	layoutMu.Lock()
	defer layoutMu.Unlock()
	if layoutDone {
		return layout, layoutErr
	}

	l, err := probeFrameLayout()
	if err != nil && !errors.Is(err, ErrLayoutUnknown) {
		return frameLayout{}, err
	}
	layout, layoutErr, layoutDone = l, err, true
	if err != nil {
		slog.Debug("AVFrame side data layout probe failed", "err", err)
	} else {
		slog.Debug("AVFrame side data layout", "side_data_offset", l.sideData, "avutil", bindings.AVUtilVersion())
	}
	return layout, layoutErr
}

// probeFrameLayout allocates a scratch frame, attaches two side-data blocks
// and looks for the pointer/counter pair that changed accordingly. Only
// the returned array pointer is ever dereferenced.
func probeFrameLayout() (frameLayout, error) {
	if avFrameAlloc == nil || avFrameNewSideData == nil {
		return frameLayout{}, bindings.ErrNotLoaded
	}

	frame := FrameAlloc()
	if frame == nil {
		return frameLayout{}, ErrNoMemory
	}
	defer FrameFree(&frame)

	tagA, _ := SideDataPanScan.Tag()
	tagB, _ := SideDataAFD.Tag()

	before := snapshot(frame)
	first := avFrameNewSideData(frame, tagA, 1)
	afterOne := snapshot(frame)
	second := avFrameNewSideData(frame, tagB, 1)
	afterTwo := snapshot(frame)
	if first == nil || second == nil {
		return frameLayout{}, ErrNoMemory
	}

	off, ok := findSideDataSlot(before, afterOne, afterTwo)
	if !ok {
		return frameLayout{}, ErrLayoutUnknown
	}

	l := frameLayout{sideData: off}
	blocks := readSideData(frame, l)
	if len(blocks) != 2 || blocks[0].ptr != first || blocks[1].ptr != second {
		return frameLayout{}, ErrLayoutUnknown
	}
	return l, nil
}

func snapshot(frame Frame) []byte {
	return append([]byte(nil), unsafe.Slice((*byte)(frame), probeWindow)...)
}

// findSideDataSlot returns the offset of the only 8-aligned pointer slot that
// was zero before, non-zero afterwards, and is followed by an int counter that
// went 0, 1, 2 across the three snapshots.
func findSideDataSlot(before, afterOne, afterTwo []byte) (uintptr, bool) {
	n := min(len(before), len(afterOne), len(afterTwo))
	found := -1
	for off := 0; off+12 <= n; off += 8 {
		if ptrAt(before, off) != 0 || ptrAt(afterOne, off) == 0 || ptrAt(afterTwo, off) == 0 {
			continue
		}
		if intAt(before, off+8) != 0 || intAt(afterOne, off+8) != 1 || intAt(afterTwo, off+8) != 2 {
			continue
		}
		if found >= 0 {
			return 0, false
		}
		found = off
	}
	if found < 0 {
		return 0, false
	}
	return uintptr(found), true
}

func ptrAt(b []byte, off int) uint64 {
	return binary.NativeEndian.Uint64(b[off:])
}

func intAt(b []byte, off int) int32 {
	return int32(binary.NativeEndian.Uint32(b[off:]))
}

// readSideData returns the frame's side-data blocks in native order.
func readSideData(frame Frame, l frameLayout) []SideData {
	arr := *(*unsafe.Pointer)(unsafe.Pointer(uintptr(frame) + l.sideData))
	n := int(*(*int32)(unsafe.Pointer(uintptr(frame) + l.nbSideData())))
	if arr == nil || n <= 0 {
		return nil
	}
	out := make([]SideData, 0, n)
	for _, p := range unsafe.Slice((*unsafe.Pointer)(arr), n) {
		out = append(out, WrapSideData(p))
	}
	return out
}
