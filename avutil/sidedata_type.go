//go:build !ios && !android && (amd64 || arm64)

package avutil

import (
	"fmt"
	"strconv"

	"github.com/obinnaokechukwu/avview/internal/cstr"
)

type sideDataKind uint8

const (
	kindOther sideDataKind = iota
	kindPanScan
	kindA53CC
	kindStereo3D
	kindMatrixEncoding
	kindDownMixInfo
	kindReplayGain
	kindDisplayMatrix
	kindAFD
	kindMotionVectors
	kindSkipSamples
	kindAudioServiceType
	kindMasteringDisplayMetadata
	kindGOPTimecode
	kindSpherical
	kindContentLightLevel
	kindIccProfile
	kindQPTableProperties
	kindQPTableData
	kindS12MTimecode
	kindDynamicHDRPlus
	kindRegionsOfInterest
	kindVideoEncParams
	kindSEIUnregistered
	kindFilmGrainParams
	kindDetectionBBoxes
	kindDOVIRPUBuffer
	kindDOVIMetadata
	kindDynamicHDRVivid
	kindAmbientViewingEnvironment
	kindVideoHint
	kindLCEVC
	kindViewID

	kindCount
)

var kindNames = [kindCount]string{
	kindOther:                     "Other",
	kindPanScan:                   "PanScan",
	kindA53CC:                     "A53CC",
	kindStereo3D:                  "Stereo3D",
	kindMatrixEncoding:            "MatrixEncoding",
	kindDownMixInfo:               "DownMixInfo",
	kindReplayGain:                "ReplayGain",
	kindDisplayMatrix:             "DisplayMatrix",
	kindAFD:                       "AFD",
	kindMotionVectors:             "MotionVectors",
	kindSkipSamples:               "SkipSamples",
	kindAudioServiceType:          "AudioServiceType",
	kindMasteringDisplayMetadata:  "MasteringDisplayMetadata",
	kindGOPTimecode:               "GOPTimecode",
	kindSpherical:                 "Spherical",
	kindContentLightLevel:         "ContentLightLevel",
	kindIccProfile:                "IccProfile",
	kindQPTableProperties:         "QPTableProperties",
	kindQPTableData:               "QPTableData",
	kindS12MTimecode:              "S12MTimecode",
	kindDynamicHDRPlus:            "DynamicHDRPlus",
	kindRegionsOfInterest:         "RegionsOfInterest",
	kindVideoEncParams:            "VideoEncParams",
	kindSEIUnregistered:           "SEIUnregistered",
	kindFilmGrainParams:           "FilmGrainParams",
	kindDetectionBBoxes:           "DetectionBBoxes",
	kindDOVIRPUBuffer:             "DOVIRPUBuffer",
	kindDOVIMetadata:              "DOVIMetadata",
	kindDynamicHDRVivid:           "DynamicHDRVivid",
	kindAmbientViewingEnvironment: "AmbientViewingEnvironment",
	kindVideoHint:                 "VideoHint",
	kindLCEVC:                     "LCEVC",
	kindViewID:                    "ViewID",
}

// SideDataType identifies the category of a frame side-data block
// (FFmpeg's enum AVFrameSideDataType).
//
// Every category avview knows by name has a package-level value below.
// Tags that are not named, for instance ones introduced by a newer FFmpeg,
// are carried by SideDataOther so that no native tag is ever rejected.
// SideDataType values are comparable with ==.
type SideDataType struct {
	kind sideDataKind
	tag  int32 // raw native tag, only for kindOther
}

// Named side-data categories.
var (
	SideDataPanScan                   = SideDataType{kind: kindPanScan}
	SideDataA53CC                     = SideDataType{kind: kindA53CC}
	SideDataStereo3D                  = SideDataType{kind: kindStereo3D}
	SideDataMatrixEncoding            = SideDataType{kind: kindMatrixEncoding}
	SideDataDownMixInfo               = SideDataType{kind: kindDownMixInfo}
	SideDataReplayGain                = SideDataType{kind: kindReplayGain}
	SideDataDisplayMatrix             = SideDataType{kind: kindDisplayMatrix}
	SideDataAFD                       = SideDataType{kind: kindAFD}
	SideDataMotionVectors             = SideDataType{kind: kindMotionVectors}
	SideDataSkipSamples               = SideDataType{kind: kindSkipSamples}
	SideDataAudioServiceType          = SideDataType{kind: kindAudioServiceType}
	SideDataMasteringDisplayMetadata  = SideDataType{kind: kindMasteringDisplayMetadata}
	SideDataGOPTimecode               = SideDataType{kind: kindGOPTimecode}
	SideDataSpherical                 = SideDataType{kind: kindSpherical}
	SideDataContentLightLevel         = SideDataType{kind: kindContentLightLevel}
	SideDataIccProfile                = SideDataType{kind: kindIccProfile}
	SideDataQPTableProperties         = SideDataType{kind: kindQPTableProperties} // FFmpeg 4.x only
	SideDataQPTableData               = SideDataType{kind: kindQPTableData}       // FFmpeg 4.x only
	SideDataS12MTimecode              = SideDataType{kind: kindS12MTimecode}
	SideDataDynamicHDRPlus            = SideDataType{kind: kindDynamicHDRPlus}
	SideDataRegionsOfInterest         = SideDataType{kind: kindRegionsOfInterest}
	SideDataVideoEncParams            = SideDataType{kind: kindVideoEncParams}
	SideDataSEIUnregistered           = SideDataType{kind: kindSEIUnregistered}
	SideDataFilmGrainParams           = SideDataType{kind: kindFilmGrainParams}
	SideDataDetectionBBoxes           = SideDataType{kind: kindDetectionBBoxes}
	SideDataDOVIRPUBuffer             = SideDataType{kind: kindDOVIRPUBuffer}
	SideDataDOVIMetadata              = SideDataType{kind: kindDOVIMetadata}
	SideDataDynamicHDRVivid           = SideDataType{kind: kindDynamicHDRVivid}
	SideDataAmbientViewingEnvironment = SideDataType{kind: kindAmbientViewingEnvironment}
	SideDataVideoHint                 = SideDataType{kind: kindVideoHint}
	SideDataLCEVC                     = SideDataType{kind: kindLCEVC}
	SideDataViewID                    = SideDataType{kind: kindViewID}
)

// SideDataOther wraps a raw native tag. The tag is kept verbatim; no attempt
// is made to map it onto a named category.
func SideDataOther(tag int32) SideDataType {
	return SideDataType{kind: kindOther, tag: tag}
}

// Other returns the raw tag of an SideDataOther value.
func (t SideDataType) Other() (int32, bool) {
	if t.kind != kindOther {
		return 0, false
	}
	return t.tag, true
}

// IsOther reports whether t is a tag avview has no name for.
func (t SideDataType) IsOther() bool {
	return t.kind == kindOther
}

// String returns the Go name of the category, or "Other(tag)".
func (t SideDataType) String() string {
	if t.kind == kindOther {
		return "Other(" + strconv.Itoa(int(t.tag)) + ")"
	}
	if t.kind >= kindCount {
		return "Invalid"
	}
	return kindNames[t.kind]
}

// Tag converts t to its native tag using the tag table of the loaded libavutil.
// ok is false for a named category the loaded FFmpeg does not define.
func (t SideDataType) Tag() (tag int32, ok bool) {
	return activeTable.Tag(t)
}

// SideDataTypeFromTag converts a native tag using the tag table of the loaded
// libavutil. It never fails: unknown tags become SideDataOther(tag).
func SideDataTypeFromTag(tag int32) SideDataType {
	return activeTable.Type(tag)
}

// Name returns FFmpeg's human-readable label for t, as reported by
// av_frame_side_data_name. Tags FFmpeg has no label for get a fixed
// "unknown side data (N)" label instead of an error.
func (t SideDataType) Name() string {
	tag, ok := t.Tag()
	if !ok {
		return t.String()
	}
	if avFrameSideDataName == nil {
		if t.kind == kindOther {
			return unknownName(tag)
		}
		return t.String()
	}
	if p := avFrameSideDataName(tag); p != nil {
		return cstr.GoString(p)
	}
	return unknownName(tag)
}

func unknownName(tag int32) string {
	return fmt.Sprintf("unknown side data (%d)", tag)
}

// TagTable maps side-data categories to the numbering used by one FFmpeg
// release line. The numbering is not stable: FFmpeg 5.0 removed the two QP
// table entries and every later tag moved down by two.
type TagTable struct {
	major uint32
	tags  [kindCount]int32
	kinds map[int32]sideDataKind
}

var commonKinds = []sideDataKind{
	kindPanScan,
	kindA53CC,
	kindStereo3D,
	kindMatrixEncoding,
	kindDownMixInfo,
	kindReplayGain,
	kindDisplayMatrix,
	kindAFD,
	kindMotionVectors,
	kindSkipSamples,
	kindAudioServiceType,
	kindMasteringDisplayMetadata,
	kindGOPTimecode,
	kindSpherical,
	kindContentLightLevel,
	kindIccProfile,
}

// Tags following kindIccProfile, per libavutil major version.
var tailKinds = map[uint32][]sideDataKind{
	56: {
		kindQPTableProperties,
		kindQPTableData,
		kindS12MTimecode,
		kindDynamicHDRPlus,
		kindRegionsOfInterest,
		kindVideoEncParams,
		kindSEIUnregistered,
		kindFilmGrainParams,
	},
	57: {
		kindS12MTimecode,
		kindDynamicHDRPlus,
		kindRegionsOfInterest,
		kindVideoEncParams,
		kindSEIUnregistered,
		kindFilmGrainParams,
		kindDetectionBBoxes,
		kindDOVIRPUBuffer,
		kindDOVIMetadata,
		kindDynamicHDRVivid,
	},
	58: {
		kindS12MTimecode,
		kindDynamicHDRPlus,
		kindRegionsOfInterest,
		kindVideoEncParams,
		kindSEIUnregistered,
		kindFilmGrainParams,
		kindDetectionBBoxes,
		kindDOVIRPUBuffer,
		kindDOVIMetadata,
		kindDynamicHDRVivid,
		kindAmbientViewingEnvironment,
		kindVideoHint, // 58.29, FFmpeg 6.1
	},
	59: {
		kindS12MTimecode,
		kindDynamicHDRPlus,
		kindRegionsOfInterest,
		kindVideoEncParams,
		kindSEIUnregistered,
		kindFilmGrainParams,
		kindDetectionBBoxes,
		kindDOVIRPUBuffer,
		kindDOVIMetadata,
		kindDynamicHDRVivid,
		kindAmbientViewingEnvironment,
		kindVideoHint,
		kindLCEVC,
		kindViewID,
	},
}

const (
	oldestTableMajor uint32 = 56
	newestTableMajor uint32 = 59
)

var tagTables = func() map[uint32]*TagTable {
	m := make(map[uint32]*TagTable, len(tailKinds))
	for major, tail := range tailKinds {
		m[major] = newTagTable(major, append(append([]sideDataKind(nil), commonKinds...), tail...))
	}
	return m
}()

// activeTable is replaced once libavutil is loaded.
var activeTable = tagTables[newestTableMajor]

// sizeIsSizeT reports whether AVFrameSideData.size is a size_t (avutil >= 57)
// rather than an int.
var sizeIsSizeT = true

func newTagTable(major uint32, order []sideDataKind) *TagTable {
	tt := &TagTable{major: major, kinds: make(map[int32]sideDataKind, len(order))}
	for i := range tt.tags {
		tt.tags[i] = -1
	}
	for i, k := range order {
		tt.tags[k] = int32(i)
		tt.kinds[int32(i)] = k
	}
	return tt
}

// TagTableFor returns the tag table for a libavutil major version. Versions
// newer than avview knows use the newest table; 0 (not loaded) does too.
func TagTableFor(avutilMajor uint32) *TagTable {
	switch {
	case avutilMajor == 0 || avutilMajor > newestTableMajor:
		return tagTables[newestTableMajor]
	case avutilMajor < oldestTableMajor:
		return tagTables[oldestTableMajor]
	default:
		return tagTables[avutilMajor]
	}
}

// ActiveTagTable returns the table selected for the loaded libavutil.
func ActiveTagTable() *TagTable {
	return activeTable
}

// Major returns the libavutil major version the table describes.
func (tt *TagTable) Major() uint32 {
	return tt.major
}

// Tag converts t to its native tag. SideDataOther values convert to their
// raw tag unchanged.
func (tt *TagTable) Tag(t SideDataType) (int32, bool) {
	if t.kind == kindOther {
		return t.tag, true
	}
	if t.kind >= kindCount {
		return -1, false
	}
	tag := tt.tags[t.kind]
	return tag, tag >= 0
}

// Type converts a native tag to a SideDataType. Total: tags outside the table
// become SideDataOther(tag).
func (tt *TagTable) Type(tag int32) SideDataType {
	if k, ok := tt.kinds[tag]; ok {
		return SideDataType{kind: k}
	}
	return SideDataOther(tag)
}

// Has reports whether the FFmpeg release line defines the named category t.
func (tt *TagTable) Has(t SideDataType) bool {
	if t.kind == kindOther {
		return false
	}
	_, ok := tt.Tag(t)
	return ok
}

// Types lists the named categories of the table in native tag order.
func (tt *TagTable) Types() []SideDataType {
	out := make([]SideDataType, len(tt.kinds))
	for tag, k := range tt.kinds {
		out[tag] = SideDataType{kind: k}
	}
	return out
}
