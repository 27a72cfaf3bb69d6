//go:build !ios && !android && (amd64 || arm64)

// Package platform describes how FFmpeg shared libraries are named and where
// they are usually installed on the running operating system.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"unsafe"
)

// Is64Bit indicates whether the platform is 64-bit.
// Native struct offsets used throughout avview assume 8-byte pointers.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension string

// LibraryPrefix is the prefix for shared library names on this platform.
var LibraryPrefix string

func init() {
	switch runtime.GOOS {
	case "darwin":
		LibraryExtension = ".dylib"
		LibraryPrefix = "lib"
	case "windows":
		LibraryExtension = ".dll"
		LibraryPrefix = ""
	default: // linux, freebsd, etc.
		LibraryExtension = ".so"
		LibraryPrefix = "lib"
	}
}

// Library names one FFmpeg component and the sonames it may be installed
// under, newest first.
type Library struct {
	Name     string
	Versions []int
}

// Major versions per FFmpeg release line:
//
//	FFmpeg  avutil  avcodec/avformat  avdevice
//	4.x     56      58                58
//	5.x     57      59                59
//	6.x     58      60                60
//	7.x     59      61                61
//	8.x     60      62                62
var (
	AVUtil   = Library{Name: "avutil", Versions: []int{60, 59, 58, 57, 56}}
	AVCodec  = Library{Name: "avcodec", Versions: []int{62, 61, 60, 59, 58}}
	AVFormat = Library{Name: "avformat", Versions: []int{62, 61, 60, 59, 58}}
	AVDevice = Library{Name: "avdevice", Versions: []int{62, 61, 60, 59, 58}}
)

// FormatLibraryName returns the platform-specific library filename.
// If version is 0, returns the unversioned library name.
//
// Examples:
//   - Linux:   FormatLibraryName("avdevice", 60) -> "libavdevice.so.60"
//   - macOS:   FormatLibraryName("avdevice", 60) -> "libavdevice.60.dylib"
//   - Windows: FormatLibraryName("avdevice", 60) -> "avdevice-60.dll"
func FormatLibraryName(name string, version int) string {
	switch runtime.GOOS {
	case "darwin":
		if version > 0 {
			return fmt.Sprintf("%s%s.%d%s", LibraryPrefix, name, version, LibraryExtension)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	case "windows":
		if version > 0 {
			return fmt.Sprintf("%s%s-%d%s", LibraryPrefix, name, version, LibraryExtension)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	default: // linux, freebsd
		if version > 0 {
			return fmt.Sprintf("%s%s%s.%d", LibraryPrefix, name, LibraryExtension, version)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	}
}

// FileNames lists the filenames to try for lib: versioned names newest first,
// then the unversioned development symlink.
func (lib Library) FileNames() []string {
	names := make([]string, 0, len(lib.Versions)+1)
	for _, v := range lib.Versions {
		names = append(names, FormatLibraryName(lib.Name, v))
	}
	return append(names, FormatLibraryName(lib.Name, 0))
}

// SearchPaths returns the directories where FFmpeg libraries are commonly
// installed, starting with the loader environment variable of the platform.
func SearchPaths() []string {
	var paths []string

	switch runtime.GOOS {
	case "linux":
		paths = append(paths, envList("LD_LIBRARY_PATH")...)
		paths = append(paths,
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/local/lib",
			"/usr/lib",
			"/lib/x86_64-linux-gnu",
			"/lib",
		)

	case "darwin":
		paths = append(paths, envList("DYLD_LIBRARY_PATH")...)
		paths = append(paths,
			"/opt/homebrew/lib",            // Apple Silicon
			"/usr/local/lib",               // Intel
			"/opt/homebrew/opt/ffmpeg/lib", // Homebrew FFmpeg
			"/usr/local/opt/ffmpeg/lib",
		)

	case "windows":
		paths = append(paths, envList("PATH")...)
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Dir(exe))
		}
		paths = append(paths,
			"C:\\ffmpeg\\bin",
			"C:\\Program Files\\ffmpeg\\bin",
		)

	case "freebsd":
		paths = append(paths, envList("LD_LIBRARY_PATH")...)
		paths = append(paths,
			"/usr/local/lib",
			"/usr/lib",
		)
	}

	return paths
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	return filepath.SplitList(v)
}
