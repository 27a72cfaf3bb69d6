//go:build !ios && !android && (amd64 || arm64)

package avutil

import (
	"bytes"
	"errors"
	"slices"
	"testing"
	"unsafe"

	"github.com/obinnaokechukwu/avview/internal/bindings"
)

type snapshots struct {
	before, afterOne, afterTwo []byte
}

func newSnapshots() snapshots {
	return snapshots{
		before:   make([]byte, probeWindow),
		afterOne: make([]byte, probeWindow),
		afterTwo: make([]byte, probeWindow),
	}
}

// attach simulates av_frame_new_side_data growing an array at off.
func (s snapshots) attach(off int) {
	ne.PutUint64(s.afterOne[off:], 0x7f0000001000)
	ne.PutUint32(s.afterOne[off+8:], 1)
	ne.PutUint64(s.afterTwo[off:], 0x7f0000002000)
	ne.PutUint32(s.afterTwo[off+8:], 2)
}

func TestFindSideDataSlot(t *testing.T) {
	s := newSnapshots()
	s.attach(288)

	// A pointer that changes without a counter next to it.
	ne.PutUint64(s.afterOne[96:], 0x1234)
	ne.PutUint64(s.afterTwo[96:], 0x1234)
	// A counter that is already set before any side data is added.
	ne.PutUint32(s.before[136:], 1)

	off, ok := findSideDataSlot(s.before, s.afterOne, s.afterTwo)
	if !ok || off != 288 {
		t.Errorf("findSideDataSlot = %d, %v, want 288", off, ok)
	}
}

func TestFindSideDataSlotAmbiguous(t *testing.T) {
	s := newSnapshots()
	s.attach(288)
	s.attach(344)
	if _, ok := findSideDataSlot(s.before, s.afterOne, s.afterTwo); ok {
		t.Error("two candidate slots must not be resolved")
	}
}

func TestFindSideDataSlotNone(t *testing.T) {
	s := newSnapshots()
	if _, ok := findSideDataSlot(s.before, s.afterOne, s.afterTwo); ok {
		t.Error("unchanged snapshots have no slot")
	}

	// Counter went up by one only.
	ne.PutUint64(s.afterOne[64:], 1)
	ne.PutUint32(s.afterOne[72:], 1)
	ne.PutUint64(s.afterTwo[64:], 1)
	ne.PutUint32(s.afterTwo[72:], 1)
	if _, ok := findSideDataSlot(s.before, s.afterOne, s.afterTwo); ok {
		t.Error("a counter stuck at 1 is not nb_side_data")
	}
}

func TestFindSideDataSlotAtWindowEnd(t *testing.T) {
	s := newSnapshots()
	s.attach(probeWindow - 16)
	off, ok := findSideDataSlot(s.before, s.afterOne, s.afterTwo)
	if !ok || off != probeWindow-16 {
		t.Errorf("findSideDataSlot = %d, %v", off, ok)
	}
}

type fakeFrame struct {
	_        [45]uint64
	sideData *unsafe.Pointer
	nb       int32
}

func TestReadSideDataFromFakeFrame(t *testing.T) {
	first := &fakeSideDataRecord{typ: 7}
	second := &fakeSideDataRecord{typ: 1000}
	arr := []unsafe.Pointer{unsafe.Pointer(first), unsafe.Pointer(second)}

	var f fakeFrame
	l := frameLayout{sideData: unsafe.Offsetof(f.sideData)}
	if l.nbSideData() != unsafe.Offsetof(f.nb) {
		t.Fatal("nb_side_data must follow side_data")
	}

	if got := readSideData(unsafe.Pointer(&f), l); len(got) != 0 {
		t.Errorf("empty frame yielded %d blocks", len(got))
	}

	f.sideData = &arr[0]
	f.nb = 2
	got := readSideData(unsafe.Pointer(&f), l)
	if len(got) != 2 {
		t.Fatalf("got %d blocks, want 2", len(got))
	}
	if got[0].Raw() != unsafe.Pointer(first) || got[1].Raw() != unsafe.Pointer(second) {
		t.Error("blocks out of order")
	}
	if got[1].Kind() != SideDataOther(1000) {
		t.Errorf("Kind() = %s", got[1].Kind())
	}
}

func TestProbeFrameLayout(t *testing.T) {
	skipIfNoFFmpeg(t)
	l, err := sideDataLayout()
	if err != nil {
		t.Fatalf("layout probe: %v", err)
	}
	if l.sideData%8 != 0 || l.sideData >= probeWindow {
		t.Errorf("implausible side_data offset %d", l.sideData)
	}
}

func TestFrameSideDataLifecycle(t *testing.T) {
	skipIfNoFFmpeg(t)

	frame := FrameAlloc()
	defer FrameFree(&frame)

	sds, err := FrameSideData(frame)
	if err != nil {
		t.Fatal(err)
	}
	if len(sds) != 0 {
		t.Fatalf("fresh frame has %d blocks", len(sds))
	}

	cll := ContentLightLevel{MaxCLL: 1000, MaxFALL: 400}
	if _, err := FrameAddSideData(frame, SideDataContentLightLevel, cll.Bytes()); err != nil {
		t.Fatalf("FrameAddSideData: %v", err)
	}
	if _, err := FrameAddSideData(frame, SideDataDisplayMatrix, RotationMatrix(90).Bytes()); err != nil {
		t.Fatalf("FrameAddSideData: %v", err)
	}

	sds, err = FrameSideData(frame)
	if err != nil {
		t.Fatal(err)
	}
	if len(sds) != 2 {
		t.Fatalf("got %d blocks, want 2", len(sds))
	}
	if sds[0].Kind() != SideDataContentLightLevel || sds[1].Kind() != SideDataDisplayMatrix {
		t.Errorf("kinds = %s, %s", sds[0].Kind(), sds[1].Kind())
	}
	if !bytes.Equal(sds[0].Data(), cll.Bytes()) {
		t.Errorf("payload = %v", sds[0].Data())
	}
	if len(sds[0].Metadata()) != 0 {
		t.Errorf("unexpected metadata %v", sds[0].Metadata())
	}

	got, ok := FrameGetSideData(frame, SideDataDisplayMatrix)
	if !ok || got.Raw() != sds[1].Raw() {
		t.Error("FrameGetSideData should return the attached matrix")
	}
	if _, ok := FrameGetSideData(frame, SideDataAFD); ok {
		t.Error("AFD was never attached")
	}

	if err := SideDataSetMetadata(sds[0], "source", "mastering"); err != nil {
		t.Fatalf("SideDataSetMetadata: %v", err)
	}
	if md := sds[0].Metadata(); md["source"] != "mastering" {
		t.Errorf("Metadata() = %v", md)
	}

	FrameRemoveSideData(frame, SideDataContentLightLevel)
	sds, err = FrameSideData(frame)
	if err != nil {
		t.Fatal(err)
	}
	if len(sds) != 1 || sds[0].Kind() != SideDataDisplayMatrix {
		t.Errorf("after removal: %d blocks", len(sds))
	}
}

func TestFrameNewSideDataRefusesOther(t *testing.T) {
	skipIfNoFFmpeg(t)

	frame := FrameAlloc()
	defer FrameFree(&frame)

	_, err := FrameNewSideData(frame, SideDataOther(1000), 4)
	if Code(err) != AVERROR_EINVAL {
		t.Errorf("expected EINVAL, got %v", err)
	}
	if !ActiveTagTable().Has(SideDataQPTableData) {
		_, err = FrameNewSideData(frame, SideDataQPTableData, 4)
		if Code(err) != AVERROR_EINVAL {
			t.Errorf("expected EINVAL for a category the loaded FFmpeg lacks, got %v", err)
		}
	}
}

// allocatedFrame is a fakeFrame padded past probeWindow, as a real AVFrame is.
type allocatedFrame struct {
	fakeFrame
	_ [16]uint64
}

// resetLayout forgets any probed layout and restores it, with the frame
// bindings, when the test ends.
func resetLayout(t *testing.T) {
	t.Helper()
	alloc, free, newSD := avFrameAlloc, avFrameFree, avFrameNewSideData
	done, l, err := layoutDone, layout, layoutErr
	t.Cleanup(func() {
		avFrameAlloc, avFrameFree, avFrameNewSideData = alloc, free, newSD
		layoutDone, layout, layoutErr = done, l, err
	})
	layoutDone, layout, layoutErr = false, frameLayout{}, nil
}

// installFakeFrames binds frame allocation and av_frame_new_side_data to
// Go memory laid out like AVFrame.
func installFakeFrames() {
	avFrameAlloc = func() unsafe.Pointer {
		return unsafe.Pointer(new(allocatedFrame))
	}
	avFrameFree = func(p *unsafe.Pointer) { *p = nil }
	avFrameNewSideData = func(frame unsafe.Pointer, typ int32, size uintptr) unsafe.Pointer {
		f := (*allocatedFrame)(frame)
		var arr []unsafe.Pointer
		if f.sideData != nil {
			arr = slices.Clone(unsafe.Slice(f.sideData, f.nb))
		}
		rec := &fakeSideDataRecord{typ: typ, size: uint64(size)}
		arr = append(arr, unsafe.Pointer(rec))
		f.sideData = &arr[0]
		f.nb = int32(len(arr))
		return unsafe.Pointer(rec)
	}
}

func TestLayoutProbeRetriesOnceLoaded(t *testing.T) {
	resetLayout(t)
	avFrameAlloc, avFrameFree, avFrameNewSideData = nil, nil, nil

	rec := &fakeSideDataRecord{typ: 7}
	arr := []unsafe.Pointer{unsafe.Pointer(rec)}
	f := fakeFrame{sideData: &arr[0], nb: 1}

	if _, err := FrameSideData(unsafe.Pointer(&f)); !errors.Is(err, bindings.ErrNotLoaded) {
		t.Fatalf("without bindings: err = %v, want ErrNotLoaded", err)
	}

	installFakeFrames()
	got, err := FrameSideData(unsafe.Pointer(&f))
	if err != nil {
		t.Fatalf("after bindings appeared: %v", err)
	}
	if len(got) != 1 || got[0].Raw() != unsafe.Pointer(rec) {
		t.Fatalf("got %d blocks", len(got))
	}
	if layout.sideData != unsafe.Offsetof(f.sideData) {
		t.Errorf("side_data offset = %d, want %d", layout.sideData, unsafe.Offsetof(f.sideData))
	}

	// A finished probe is kept.
	avFrameAlloc = nil
	if _, err := FrameSideData(unsafe.Pointer(&f)); err != nil {
		t.Errorf("cached layout lost: %v", err)
	}
}

func TestLayoutUnknownIsCached(t *testing.T) {
	resetLayout(t)
	calls := 0
	avFrameAlloc = func() unsafe.Pointer {
		calls++
		return unsafe.Pointer(new(allocatedFrame))
	}
	avFrameFree = func(p *unsafe.Pointer) { *p = nil }
	// Returns blocks without recording them anywhere in the frame.
	avFrameNewSideData = func(frame unsafe.Pointer, typ int32, size uintptr) unsafe.Pointer {
		return unsafe.Pointer(&fakeSideDataRecord{typ: typ})
	}

	var f fakeFrame
	for n := 0; n < 2; n++ {
		if _, err := FrameSideData(unsafe.Pointer(&f)); !errors.Is(err, ErrLayoutUnknown) {
			t.Fatalf("err = %v, want ErrLayoutUnknown", err)
		}
	}
	if calls != 1 {
		t.Errorf("probed %d times, want 1", calls)
	}
}
