//go:build !ios && !android && (amd64 || arm64)

// Package bindings handles loading FFmpeg shared libraries with purego.
//
// Only libavutil is loaded by Load. Components that need more of FFmpeg
// (libavdevice pulls in libavformat and libavcodec) load them on demand
// through LoadLibrary, which shares the same search configuration.
package bindings

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/avview/internal/platform"
)

// ErrNotLoaded is returned when FFmpeg functions are called before Load().
var ErrNotLoaded = errors.New("avview: FFmpeg libraries not loaded; call avview.Init() first")

// ErrLibraryNotFound is returned when a required FFmpeg library cannot be found.
var ErrLibraryNotFound = errors.New("avview: FFmpeg library not found")

var (
	libMu     sync.Mutex
	libs      = make(map[string]uintptr)
	libPaths  = make(map[string]string)
	extraDirs []string

	// libAVUtil and avutilVersion are written under loadMu before loaded is
	// set, and read only once loaded reports true.
	libAVUtil uintptr
	loaded    atomic.Bool
	loadMu    sync.Mutex

	avutilVersion func() uint32
)

// SetSearchPaths adds directories that are searched before the platform
// defaults. It only affects libraries that have not been loaded yet.
func SetSearchPaths(dirs []string) {
	libMu.Lock()
	defer libMu.Unlock()
	extraDirs = append([]string(nil), dirs...)
}

// IsLoaded returns true if libavutil has been successfully loaded.
func IsLoaded() bool {
	return loaded.Load()
}

// Load loads libavutil and registers the version binding.
// It is safe to call multiple times. Once it succeeds later calls are no-ops;
// after a failure the search is repeated, so SetSearchPaths can still help.
func Load() error {
	loadMu.Lock()
	defer loadMu.Unlock()
	if loaded.Load() {
		return nil
	}
	if err := doLoad(); err != nil {
		return err
	}
	loaded.Store(true)
	return nil
}

func doLoad() error {
	lib, err := openLibrary(platform.AVUtil)
	if err != nil {
		return fmt.Errorf("loading libavutil: %w", err)
	}
	libAVUtil = lib
	purego.RegisterLibFunc(&avutilVersion, libAVUtil, "avutil_version")
	return nil
}

// LoadLibrary loads an additional FFmpeg library after libavutil.
// Handles are cached, so loading the same library twice returns the first handle.
func LoadLibrary(lib platform.Library) (uintptr, error) {
	if err := Load(); err != nil {
		return 0, err
	}
	return openLibrary(lib)
}

func openLibrary(lib platform.Library) (uintptr, error) {
	libMu.Lock()
	defer libMu.Unlock()

	if h, ok := libs[lib.Name]; ok {
		return h, nil
	}

	candidates := lib.FileNames()
	for _, dir := range searchDirs() {
		for _, name := range candidates {
			full := filepath.Join(dir, name)
			if h, err := tryOpen(full); err == nil {
				remember(lib.Name, full, h)
				return h, nil
			}
		}
	}

	// Let the system loader resolve the bare names.
	for _, name := range candidates {
		if h, err := tryOpen(name); err == nil {
			remember(lib.Name, name, h)
			return h, nil
		}
	}

	return 0, fmt.Errorf("%w: %s", ErrLibraryNotFound, lib.Name)
}

func remember(name, path string, h uintptr) {
	libs[name] = h
	libPaths[name] = path
	slog.Debug("loaded FFmpeg library", "library", name, "path", path)
}

func searchDirs() []string {
	dirs := append([]string(nil), extraDirs...)
	return append(dirs, platform.SearchPaths()...)
}

// tryOpen opens a library with RTLD_NOW | RTLD_GLOBAL.
// FFmpeg libraries resolve symbols from each other, so RTLD_GLOBAL is required.
func tryOpen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

// FindLibrary searches for a library on disk and returns its full path
// without loading it. Useful for diagnostics.
func FindLibrary(lib platform.Library) (string, error) {
	libMu.Lock()
	dirs := searchDirs()
	libMu.Unlock()

	for _, dir := range dirs {
		for _, name := range lib.FileNames() {
			full := filepath.Join(dir, name)
			if _, err := os.Stat(full); err == nil {
				return full, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrLibraryNotFound, lib.Name)
}

// LoadedPath returns the path a library was loaded from, or "" if it is not loaded.
func LoadedPath(name string) string {
	libMu.Lock()
	defer libMu.Unlock()
	return libPaths[name]
}

// AVUtilVersion returns the avutil library version.
// Returns 0 if libraries are not loaded.
func AVUtilVersion() uint32 {
	if !loaded.Load() {
		return 0
	}
	return avutilVersion()
}

// AVUtilMajor returns the major version of the loaded libavutil, or 0.
func AVUtilMajor() uint32 {
	return AVUtilVersion() >> 16
}

// LibAVUtil returns the avutil library handle, or 0 before Load succeeds.
func LibAVUtil() uintptr {
	if !loaded.Load() {
		return 0
	}
	return libAVUtil
}
