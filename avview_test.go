//go:build !ios && !android && (amd64 || arm64)

package avview

import (
	"errors"
	"os"
	"runtime"
	"testing"

	"github.com/obinnaokechukwu/avview/avdevice"
	"github.com/obinnaokechukwu/avview/avutil"
)

var ffmpegAvailable bool

func TestMain(m *testing.M) {
	if err := Init(); err == nil {
		ffmpegAvailable = true
	}
	os.Exit(m.Run())
}

func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if !ffmpegAvailable {
		t.Skip("FFmpeg not available")
	}
}

func TestInit(t *testing.T) {
	skipIfNoFFmpeg(t)
	if err := Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if !IsLoaded() {
		t.Error("IsLoaded returned false after Init")
	}
	if LibraryPath("avutil") == "" {
		t.Error("avutil path unknown after Init")
	}
}

func TestVersion(t *testing.T) {
	skipIfNoFFmpeg(t)
	v := Version()
	if v.AVUtil == 0 {
		t.Error("avutil version is 0")
	}
	t.Logf("Versions: avutil=%s, avdevice=%s", VersionString(v.AVUtil), VersionString(v.AVDevice))
}

func TestVersionString(t *testing.T) {
	if got := VersionString(59<<16 | 39<<8 | 100); got != "59.39.100" {
		t.Errorf("VersionString = %q", got)
	}
	if got := VersionString(0); got != "0.0.0" {
		t.Errorf("VersionString(0) = %q", got)
	}
}

func TestInputFormatFor(t *testing.T) {
	cases := []struct {
		goos string
		typ  DeviceType
		want string
	}{
		{"linux", DeviceTypeVideo, "v4l2"},
		{"linux", DeviceTypeAudio, "alsa"},
		{"darwin", DeviceTypeVideo, "avfoundation"},
		{"darwin", DeviceTypeAudio, "avfoundation"},
		{"windows", DeviceTypeVideo, "dshow"},
		{"windows", DeviceTypeAudio, "dshow"},
		{"plan9", DeviceTypeVideo, ""},
	}
	for _, c := range cases {
		if got := inputFormatFor(c.goos, c.typ); got != c.want {
			t.Errorf("inputFormatFor(%s, %s) = %q, want %q", c.goos, c.typ, got, c.want)
		}
	}
}

func TestDeviceURLFor(t *testing.T) {
	cases := []struct {
		goos   string
		device string
		typ    DeviceType
		want   string
	}{
		{"linux", "/dev/video0", DeviceTypeVideo, "/dev/video0"},
		{"linux", "hw:0,0", DeviceTypeAudio, "hw:0,0"},
		{"darwin", "0", DeviceTypeVideo, "0:"},
		{"darwin", "1", DeviceTypeAudio, ":1"},
		{"windows", "HD Webcam", DeviceTypeVideo, "video=HD Webcam"},
		{"windows", "Microphone", DeviceTypeAudio, "audio=Microphone"},
	}
	for _, c := range cases {
		if got := deviceURLFor(c.goos, c.device, c.typ); got != c.want {
			t.Errorf("deviceURLFor(%s, %q) = %q, want %q", c.goos, c.device, got, c.want)
		}
	}
}

func TestListSourcesRejectsNUL(t *testing.T) {
	if err := avdevice.Init(); err != nil {
		t.Skipf("libavdevice not available: %v", err)
	}
	_, err := ListSources("v4l2\x00")
	if !IsInvalidData(err) || !errors.Is(err, ErrInvalidData) {
		t.Errorf("expected invalid data, got %v", err)
	}
	if ErrorCode(err) != AVERROR_INVALIDDATA {
		t.Errorf("ErrorCode = %d", ErrorCode(err))
	}
}

func TestListDevicesSmoke(t *testing.T) {
	if err := avdevice.Init(); err != nil {
		t.Skipf("libavdevice not available: %v", err)
	}
	devs, err := ListDevices(DeviceTypeVideo)
	if err != nil {
		// Headless machines have no capture devices; the error must still
		// carry FFmpeg's code.
		if ErrorCode(err) == 0 && !errors.Is(err, ErrUnsupportedPlatform) {
			t.Errorf("untyped error: %v", err)
		}
		return
	}
	for _, d := range devs {
		if d.Name == "" {
			t.Error("device without a name")
		}
	}
}

func TestFrameSideData(t *testing.T) {
	skipIfNoFFmpeg(t)

	f, err := NewFrame()
	if err != nil {
		t.Fatal(err)
	}
	defer f.Free()

	cll := avutil.ContentLightLevel{MaxCLL: 1000, MaxFALL: 400}
	if _, err := f.AddSideData(avutil.SideDataContentLightLevel, cll.Bytes()); err != nil {
		t.Fatalf("AddSideData: %v", err)
	}

	sds, err := f.SideData()
	if errors.Is(err, avutil.ErrLayoutUnknown) {
		t.Skipf("side data enumeration unavailable: %v", err)
	}
	if err != nil {
		t.Fatal(err)
	}
	if len(sds) != 1 || sds[0].Kind() != avutil.SideDataContentLightLevel {
		t.Fatalf("SideData() = %v", sds)
	}
	decoded, err := sds[0].ContentLightLevel()
	if err != nil || decoded != cll {
		t.Errorf("ContentLightLevel() = %+v, %v", decoded, err)
	}

	if _, ok := f.SideDataOfType(avutil.SideDataContentLightLevel); !ok {
		t.Error("SideDataOfType missed the block")
	}
	f.RemoveSideData(avutil.SideDataContentLightLevel)
	if _, ok := f.SideDataOfType(avutil.SideDataContentLightLevel); ok {
		t.Error("block still present after RemoveSideData")
	}
}

func TestFrameAfterFree(t *testing.T) {
	skipIfNoFFmpeg(t)

	f, err := NewFrame()
	if err != nil {
		t.Fatal(err)
	}
	f.Free()
	f.Free()

	if f.Raw() != nil {
		t.Error("Raw() should be nil after Free")
	}
	if _, err := f.SideData(); !errors.Is(err, ErrClosed) {
		t.Errorf("SideData() after Free: %v", err)
	}
	if _, err := f.AddSideData(avutil.SideDataAFD, []byte{8}); !errors.Is(err, ErrClosed) {
		t.Errorf("AddSideData() after Free: %v", err)
	}
	f.RemoveSideData(avutil.SideDataAFD)
}

func TestWrapFrame(t *testing.T) {
	if WrapFrame(nil) != nil {
		t.Error("WrapFrame(nil) should be nil")
	}
	skipIfNoFFmpeg(t)

	raw := avutil.FrameAlloc()
	defer avutil.FrameFree(&raw)

	f := WrapFrame(raw)
	if _, err := f.AddSideData(avutil.SideDataAFD, []byte{8}); err != nil {
		t.Fatal(err)
	}
	f.Free()
	// The caller still owns raw.
	if _, ok := avutil.FrameGetSideData(raw, avutil.SideDataAFD); !ok {
		t.Error("wrapped frame was freed")
	}
}

// attachToDroppedFrame returns a view whose Frame is not referenced anywhere
// else.
func attachToDroppedFrame(t *testing.T, cll avutil.ContentLightLevel) SideData {
	t.Helper()
	f, err := NewFrame()
	if err != nil {
		t.Fatal(err)
	}
	sd, err := f.AddSideData(avutil.SideDataContentLightLevel, cll.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	return sd
}

func TestSideDataViewKeepsFrameAlive(t *testing.T) {
	skipIfNoFFmpeg(t)

	cll := avutil.ContentLightLevel{MaxCLL: 1000, MaxFALL: 400}
	sd := attachToDroppedFrame(t, cll)
	for n := 0; n < 3; n++ {
		runtime.GC()
	}

	f, ok := sd.Owner().(*Frame)
	if !ok {
		t.Fatalf("view does not reference its frame: %T", sd.Owner())
	}
	if f.Raw() == nil {
		t.Fatal("frame finalized while a view of it was reachable")
	}
	got, err := sd.ContentLightLevel()
	if err != nil || got != cll {
		t.Errorf("ContentLightLevel() = %+v, %v", got, err)
	}
	f.Free()
}

func TestFrameViewsReferenceFrame(t *testing.T) {
	skipIfNoFFmpeg(t)

	f, err := NewFrame()
	if err != nil {
		t.Fatal(err)
	}
	defer f.Free()
	if _, err := f.AddSideData(avutil.SideDataAFD, []byte{8}); err != nil {
		t.Fatal(err)
	}

	if sd, ok := f.SideDataOfType(avutil.SideDataAFD); !ok || sd.Owner() != f {
		t.Errorf("SideDataOfType view owner = %v", sd.Owner())
	}
	blocks, err := f.SideData()
	if errors.Is(err, avutil.ErrLayoutUnknown) {
		t.Skipf("side data enumeration unavailable: %v", err)
	}
	if err != nil {
		t.Fatal(err)
	}
	for _, sd := range blocks {
		if sd.Owner() != f {
			t.Errorf("SideData view owner = %v", sd.Owner())
		}
	}
}
