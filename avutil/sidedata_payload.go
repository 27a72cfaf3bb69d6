//go:build !ios && !android && (amd64 || arm64)

package avutil

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Payload decoding errors.
var (
	ErrPayloadKind = errors.New("avview: side data is of a different kind")
	ErrPayloadSize = errors.New("avview: side data payload too short")
)

// Side-data payloads are C structs in host byte order, except SkipSamples
// which FFmpeg writes explicitly little-endian.
var ne = binary.NativeEndian

func (sd SideData) payload(want SideDataType, minSize int) ([]byte, error) {
	if got := sd.Kind(); got != want {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrPayloadKind, want, got)
	}
	b := sd.Data()
	if len(b) < minSize {
		return nil, fmt.Errorf("%w: %s needs %d bytes, have %d", ErrPayloadSize, want, minSize, len(b))
	}
	return b, nil
}

// ContentLightLevel is AVContentLightMetadata, in cd/m².
type ContentLightLevel struct {
	MaxCLL  uint32 // max content light level
	MaxFALL uint32 // max frame-average light level
}

const sizeContentLightLevel = 8

// ContentLightLevel decodes a SideDataContentLightLevel block.
func (sd SideData) ContentLightLevel() (ContentLightLevel, error) {
	b, err := sd.payload(SideDataContentLightLevel, sizeContentLightLevel)
	if err != nil {
		return ContentLightLevel{}, err
	}
	return ContentLightLevel{MaxCLL: ne.Uint32(b), MaxFALL: ne.Uint32(b[4:])}, nil
}

// Bytes encodes c in the native layout.
func (c ContentLightLevel) Bytes() []byte {
	b := make([]byte, sizeContentLightLevel)
	ne.PutUint32(b, c.MaxCLL)
	ne.PutUint32(b[4:], c.MaxFALL)
	return b
}

// MasteringDisplay is AVMasteringDisplayMetadata (SMPTE ST 2086).
type MasteringDisplay struct {
	DisplayPrimaries [3][2]Rational // CIE 1931 xy of R, G, B
	WhitePoint       [2]Rational
	MinLuminance     Rational // cd/m²
	MaxLuminance     Rational // cd/m²
	HasPrimaries     bool
	HasLuminance     bool
}

const sizeMasteringDisplay = 88

// MasteringDisplay decodes a SideDataMasteringDisplayMetadata block.
func (sd SideData) MasteringDisplay() (MasteringDisplay, error) {
	b, err := sd.payload(SideDataMasteringDisplayMetadata, sizeMasteringDisplay)
	if err != nil {
		return MasteringDisplay{}, err
	}
	var m MasteringDisplay
	off := 0
	for i := range m.DisplayPrimaries {
		for j := range m.DisplayPrimaries[i] {
			m.DisplayPrimaries[i][j] = rationalAt(b, off)
			off += 8
		}
	}
	m.WhitePoint[0] = rationalAt(b, 48)
	m.WhitePoint[1] = rationalAt(b, 56)
	m.MinLuminance = rationalAt(b, 64)
	m.MaxLuminance = rationalAt(b, 72)
	m.HasPrimaries = ne.Uint32(b[80:]) != 0
	m.HasLuminance = ne.Uint32(b[84:]) != 0
	return m, nil
}

// DisplayMatrix is the 3x3 transformation matrix of a SideDataDisplayMatrix
// block, in 16.16 fixed point except the last column (2.30).
type DisplayMatrix [9]int32

const sizeDisplayMatrix = 36

// DisplayMatrix decodes a SideDataDisplayMatrix block.
func (sd SideData) DisplayMatrix() (DisplayMatrix, error) {
	b, err := sd.payload(SideDataDisplayMatrix, sizeDisplayMatrix)
	if err != nil {
		return DisplayMatrix{}, err
	}
	var m DisplayMatrix
	for i := range m {
		m[i] = int32(ne.Uint32(b[i*4:]))
	}
	return m, nil
}

func fixed16(v int32) float64 { return float64(v) / (1 << 16) }

// Rotation returns the counterclockwise rotation in degrees, in [-180, 180],
// matching av_display_rotation_get. NaN when the matrix is degenerate.
func (m DisplayMatrix) Rotation() float64 {
	scale0 := math.Hypot(fixed16(m[0]), fixed16(m[3]))
	scale1 := math.Hypot(fixed16(m[1]), fixed16(m[4]))
	if scale0 == 0 || scale1 == 0 {
		return math.NaN()
	}
	rotation := math.Atan2(fixed16(m[1])/scale1, fixed16(m[0])/scale0) * 180 / math.Pi
	return -rotation
}

// RotationMatrix builds a pure clockwise rotation by angle degrees,
// matching av_display_rotation_set.
func RotationMatrix(angle float64) DisplayMatrix {
	radians := -angle * math.Pi / 180
	c, s := math.Cos(radians), math.Sin(radians)
	var m DisplayMatrix
	m[0] = int32(c * (1 << 16))
	m[1] = int32(-s * (1 << 16))
	m[3] = int32(s * (1 << 16))
	m[4] = int32(c * (1 << 16))
	m[8] = 1 << 30
	return m
}

// Bytes encodes m in the native layout.
func (m DisplayMatrix) Bytes() []byte {
	b := make([]byte, sizeDisplayMatrix)
	for i, v := range m {
		ne.PutUint32(b[i*4:], uint32(v))
	}
	return b
}

// Stereo3DType is enum AVStereo3DType.
type Stereo3DType int32

const (
	Stereo3D2D Stereo3DType = iota
	Stereo3DSideBySide
	Stereo3DTopBottom
	Stereo3DFrameSequence
	Stereo3DCheckerboard
	Stereo3DSideBySideQuincunx
	Stereo3DLines
	Stereo3DColumns
	Stereo3DUnspecified
)

// Stereo3DFlagInvert marks views stored in inverted order.
const Stereo3DFlagInvert = 1 << 0

// Stereo3D holds the leading fields of AVStereo3D common to all releases.
type Stereo3D struct {
	Type  Stereo3DType
	Flags int32
}

// Stereo3D decodes a SideDataStereo3D block.
func (sd SideData) Stereo3D() (Stereo3D, error) {
	b, err := sd.payload(SideDataStereo3D, 8)
	if err != nil {
		return Stereo3D{}, err
	}
	return Stereo3D{Type: Stereo3DType(ne.Uint32(b)), Flags: int32(ne.Uint32(b[4:]))}, nil
}

// Inverted reports whether Stereo3DFlagInvert is set.
func (s Stereo3D) Inverted() bool {
	return s.Flags&Stereo3DFlagInvert != 0
}

// RegionOfInterest is one AVRegionOfInterest entry. Edges are in pixels from
// the top-left corner; QOffset is in [-1, 1], negative meaning better quality.
type RegionOfInterest struct {
	Top, Bottom, Left, Right int32
	QOffset                  Rational
}

// AVRegionOfInterest: uint32 self_size; int top, bottom, left, right; AVRational qoffset.
const sizeRegionOfInterest = 28

// RegionsOfInterest decodes a SideDataRegionsOfInterest block. Entries are
// laid out with the stride stored in the first entry's self_size.
func (sd SideData) RegionsOfInterest() ([]RegionOfInterest, error) {
	b, err := sd.payload(SideDataRegionsOfInterest, sizeRegionOfInterest)
	if err != nil {
		return nil, err
	}
	stride := int(ne.Uint32(b))
	if stride < sizeRegionOfInterest || len(b)%stride != 0 {
		return nil, fmt.Errorf("%w: invalid region stride %d for %d bytes", ErrPayloadSize, stride, len(b))
	}
	out := make([]RegionOfInterest, 0, len(b)/stride)
	for off := 0; off < len(b); off += stride {
		e := b[off:]
		out = append(out, RegionOfInterest{
			Top:     int32(ne.Uint32(e[4:])),
			Bottom:  int32(ne.Uint32(e[8:])),
			Left:    int32(ne.Uint32(e[12:])),
			Right:   int32(ne.Uint32(e[16:])),
			QOffset: rationalAt(e, 20),
		})
	}
	return out, nil
}

// PanScan is AVPanScan. Positions are in 1/16 pixel.
type PanScan struct {
	ID       int32
	Width    int32
	Height   int32
	Position [3][2]int16
}

// PanScan decodes a SideDataPanScan block.
func (sd SideData) PanScan() (PanScan, error) {
	b, err := sd.payload(SideDataPanScan, 24)
	if err != nil {
		return PanScan{}, err
	}
	p := PanScan{
		ID:     int32(ne.Uint32(b)),
		Width:  int32(ne.Uint32(b[4:])),
		Height: int32(ne.Uint32(b[8:])),
	}
	off := 12
	for i := range p.Position {
		for j := range p.Position[i] {
			p.Position[i][j] = int16(ne.Uint16(b[off:]))
			off += 2
		}
	}
	return p, nil
}

// ReplayGain is AVReplayGain. Gains are in microbels; math.MinInt32 means
// unknown. Peaks are in 1/100000 of full scale; 0 means unknown.
type ReplayGain struct {
	TrackGain int32
	TrackPeak uint32
	AlbumGain int32
	AlbumPeak uint32
}

// ReplayGain decodes a SideDataReplayGain block.
func (sd SideData) ReplayGain() (ReplayGain, error) {
	b, err := sd.payload(SideDataReplayGain, 16)
	if err != nil {
		return ReplayGain{}, err
	}
	return ReplayGain{
		TrackGain: int32(ne.Uint32(b)),
		TrackPeak: ne.Uint32(b[4:]),
		AlbumGain: int32(ne.Uint32(b[8:])),
		AlbumPeak: ne.Uint32(b[12:]),
	}, nil
}

// SkipSamples is the payload of a SideDataSkipSamples block.
type SkipSamples struct {
	SkipStart          uint32
	SkipEnd            uint32
	DiscardStartReason uint8
	DiscardEndReason   uint8
}

// SkipSamples decodes a SideDataSkipSamples block.
func (sd SideData) SkipSamples() (SkipSamples, error) {
	b, err := sd.payload(SideDataSkipSamples, 10)
	if err != nil {
		return SkipSamples{}, err
	}
	return SkipSamples{
		SkipStart:          binary.LittleEndian.Uint32(b),
		SkipEnd:            binary.LittleEndian.Uint32(b[4:]),
		DiscardStartReason: b[8],
		DiscardEndReason:   b[9],
	}, nil
}

// AFD decodes the active format description byte of a SideDataAFD block.
func (sd SideData) AFD() (uint8, error) {
	b, err := sd.payload(SideDataAFD, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// MatrixEncoding decodes the enum AVMatrixEncoding of a SideDataMatrixEncoding block.
func (sd SideData) MatrixEncoding() (int32, error) {
	b, err := sd.payload(SideDataMatrixEncoding, 4)
	if err != nil {
		return 0, err
	}
	return int32(ne.Uint32(b)), nil
}

// AudioServiceType decodes the enum AVAudioServiceType of a SideDataAudioServiceType block.
func (sd SideData) AudioServiceType() (int32, error) {
	b, err := sd.payload(SideDataAudioServiceType, 4)
	if err != nil {
		return 0, err
	}
	return int32(ne.Uint32(b)), nil
}

// DownmixInfo is AVDownmixInfo.
type DownmixInfo struct {
	PreferredType        int32
	CenterMixLevel       float64
	CenterMixLevelLtRt   float64
	SurroundMixLevel     float64
	SurroundMixLevelLtRt float64
	LFEMixLevel          float64
}

// DownmixInfo decodes a SideDataDownMixInfo block.
func (sd SideData) DownmixInfo() (DownmixInfo, error) {
	b, err := sd.payload(SideDataDownMixInfo, 48)
	if err != nil {
		return DownmixInfo{}, err
	}
	f := func(off int) float64 { return math.Float64frombits(ne.Uint64(b[off:])) }
	return DownmixInfo{
		PreferredType:        int32(ne.Uint32(b)),
		CenterMixLevel:       f(8),
		CenterMixLevelLtRt:   f(16),
		SurroundMixLevel:     f(24),
		SurroundMixLevelLtRt: f(32),
		LFEMixLevel:          f(40),
	}, nil
}
