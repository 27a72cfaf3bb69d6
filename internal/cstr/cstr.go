// Package cstr converts between Go strings and NUL-terminated C strings
// owned by FFmpeg.
package cstr

import (
	"strings"
	"unsafe"
)

// GoString copies the NUL-terminated string at ptr into a Go string.
// A nil ptr yields "". The bytes are not validated as UTF-8.
func GoString(ptr unsafe.Pointer) string {
	if ptr == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(ptr, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(ptr), n))
}

// At reads the char* stored at base+off and copies the string it points to.
func At(base unsafe.Pointer, off uintptr) string {
	if base == nil {
		return ""
	}
	return GoString(*(*unsafe.Pointer)(unsafe.Add(base, off)))
}

// Valid reports whether s can be passed to C as a NUL-terminated string,
// i.e. it contains no embedded NUL byte.
func Valid(s string) bool {
	return strings.IndexByte(s, 0) < 0
}
