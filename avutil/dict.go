//go:build !ios && !android && (amd64 || arm64)

package avutil

import (
	"unsafe"

	"github.com/obinnaokechukwu/avview/internal/bindings"
	"github.com/obinnaokechukwu/avview/internal/cstr"
)

// av_dict_get flags
const (
	AV_DICT_MATCH_CASE    = 1
	AV_DICT_IGNORE_SUFFIX = 2
)

// AVDictionaryEntry field offsets: char *key; char *value.
const (
	offsetDictEntryKey   = 0
	offsetDictEntryValue = 8
)

// Metadata is a snapshot of an AVDictionary.
type Metadata map[string]string

// DictToMetadata copies every entry of dict into a Metadata map.
// A nil dictionary yields an empty map.
func DictToMetadata(dict Dictionary) Metadata {
	result := make(Metadata)
	if dict == nil || avDictGet == nil {
		return result
	}

	// An empty key with AV_DICT_IGNORE_SUFFIX matches every entry in order.
	var prev unsafe.Pointer
	for {
		entry := avDictGet(dict, "", prev, AV_DICT_IGNORE_SUFFIX)
		if entry == nil {
			break
		}
		if key := cstr.At(entry, offsetDictEntryKey); key != "" {
			result[key] = cstr.At(entry, offsetDictEntryValue)
		}
		prev = entry
	}
	return result
}

// DictGet returns the value stored under key, matching case-insensitively
// like FFmpeg does by default.
func DictGet(dict Dictionary, key string) (string, bool) {
	if dict == nil || avDictGet == nil || !cstr.Valid(key) {
		return "", false
	}
	entry := avDictGet(dict, key, nil, 0)
	if entry == nil {
		return "", false
	}
	return cstr.At(entry, offsetDictEntryValue), true
}

// SideDataSetMetadata adds key=value to the dictionary of a side-data block.
// It mutates the block in place; Metadata snapshots taken earlier are not updated.
func SideDataSetMetadata(sd SideData, key, value string) error {
	if avDictSet == nil {
		return bindings.ErrNotLoaded
	}
	dict := (*unsafe.Pointer)(unsafe.Pointer(uintptr(sd.ptr) + offsetSideDataMetadata))
	return DictSet(dict, key, value, 0)
}
