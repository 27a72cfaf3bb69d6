//go:build !ios && !android && (amd64 || arm64)

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/obinnaokechukwu/avview"
	"github.com/obinnaokechukwu/avview/avdevice"
	"github.com/obinnaokechukwu/avview/avutil"
)

func runInfo(r *Report) error {
	// Device libraries are optional for info.
	if err := avdevice.Init(); err != nil {
		slog.Warn("libavdevice not available", "err", err)
	}
	v := avview.Version()
	r.Info = &InfoReport{
		AVUtil: LibraryInfo{
			Version:       avview.VersionString(v.AVUtil),
			Path:          avview.LibraryPath("avutil"),
			Configuration: avutil.Configuration(),
			License:       avutil.License(),
		},
		AVDevice: LibraryInfo{
			Version:       avview.VersionString(v.AVDevice),
			Path:          avview.LibraryPath("avdevice"),
			Configuration: avdevice.Configuration(),
			License:       avdevice.License(),
		},
		SideDataTable: avutil.ActiveTagTable().Major(),
	}
	return nil
}

func listBackends() (*BackendsReport, error) {
	if err := avdevice.RegisterAll(); err != nil {
		return nil, err
	}
	var b BackendsReport
	var errs []error
	var err error
	b.InputVideo, err = avdevice.InputVideoBackends()
	errs = append(errs, err)
	b.InputAudio, err = avdevice.InputAudioBackends()
	errs = append(errs, err)
	b.OutputVideo, err = avdevice.OutputVideoBackends()
	errs = append(errs, err)
	b.OutputAudio, err = avdevice.OutputAudioBackends()
	errs = append(errs, err)
	return &b, errors.Join(errs...)
}

func runBackends(r *Report) error {
	b, err := listBackends()
	if err != nil {
		return err
	}
	r.Backends = b
	return nil
}

// runDevices enumerates the named backends, or every backend when names is
// empty. Inputs are asked for sources, outputs for sinks. A backend failing
// to enumerate is recorded in the report, not returned.
func runDevices(r *Report, names []string) error {
	b, err := listBackends()
	if err != nil {
		return err
	}
	inputs := backendNames(b.InputVideo, b.InputAudio)
	outputs := backendNames(b.OutputVideo, b.OutputAudio)

	if len(names) == 0 {
		names = append(slices.Clone(inputs), outputs...)
	}
	for _, name := range uniqueNames(names) {
		isInput := slices.Contains(inputs, name)
		isOutput := slices.Contains(outputs, name)
		if isInput || !isOutput {
			r.Devices = append(r.Devices, enumerate(name, "sources", avdevice.Sources))
		}
		if isOutput {
			r.Devices = append(r.Devices, enumerate(name, "sinks", avdevice.Sinks))
		}
	}
	return nil
}

// uniqueNames returns names without repeats, first occurrence first. The
// argument is left untouched.
func uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func backendNames(groups ...[]avview.Backend) []string {
	var names []string
	for _, g := range groups {
		for _, b := range g {
			if !slices.Contains(names, b.Name) {
				names = append(names, b.Name)
			}
		}
	}
	return names
}

func enumerate(backend, direction string, list func(string) (*avdevice.DeviceIter, error)) DeviceReport {
	rep := DeviceReport{Backend: backend, Direction: direction, Default: -1, Devices: []avview.DeviceInfo{}}
	it, err := list(backend)
	if err != nil {
		slog.Debug("device enumeration failed", "backend", backend, "direction", direction, "err", err)
		rep.Error = err.Error()
		rep.ErrorCode = avview.ErrorCode(err)
		return rep
	}
	defer it.Close()
	rep.Default = it.DefaultIndex()
	rep.Devices = it.All()
	return rep
}

// runSideData attaches a set of sample blocks to a fresh frame and reports
// how they read back.
func runSideData(r *Report) error {
	f, err := avview.NewFrame()
	if err != nil {
		return err
	}
	defer f.Free()

	cll, err := f.AddSideData(avutil.SideDataContentLightLevel, avutil.ContentLightLevel{MaxCLL: 1000, MaxFALL: 400}.Bytes())
	if err != nil {
		return fmt.Errorf("attaching content light level: %w", err)
	}
	if err := avutil.SideDataSetMetadata(cll, "source", "avview"); err != nil {
		return err
	}
	if _, err := f.AddSideData(avutil.SideDataDisplayMatrix, avutil.RotationMatrix(90).Bytes()); err != nil {
		return fmt.Errorf("attaching display matrix: %w", err)
	}
	if _, err := f.AddSideData(avutil.SideDataAFD, []byte{0x08}); err != nil {
		return fmt.Errorf("attaching AFD: %w", err)
	}

	blocks, err := f.SideData()
	if errors.Is(err, avutil.ErrLayoutUnknown) {
		// Fall back to per-type lookup.
		slog.Warn("cannot enumerate side data on this FFmpeg", "err", err)
		blocks = blocks[:0]
		for _, t := range []avview.SideDataType{avutil.SideDataContentLightLevel, avutil.SideDataDisplayMatrix, avutil.SideDataAFD} {
			if sd, ok := f.SideDataOfType(t); ok {
				blocks = append(blocks, sd)
			}
		}
	} else if err != nil {
		return err
	}

	for _, sd := range blocks {
		r.SideData = append(r.SideData, describeSideData(sd))
	}
	return nil
}

func describeSideData(sd avview.SideData) SideDataReport {
	kind := sd.Kind()
	tag, _ := kind.Tag()
	rep := SideDataReport{
		Type:     kind.String(),
		Tag:      tag,
		Name:     kind.Name(),
		Size:     sd.Size(),
		Metadata: sd.Metadata(),
	}
	payload, err := decodePayload(sd)
	if err != nil {
		slog.Debug("cannot decode side data payload", "type", kind, "err", err)
	}
	rep.Payload = payload
	return rep
}

// DisplayMatrixPayload pairs a display matrix with its rotation.
type DisplayMatrixPayload struct {
	Matrix   avutil.DisplayMatrix `json:"matrix" yaml:"matrix"`
	Rotation *float64             `json:"rotation,omitempty" yaml:"rotation,omitempty"`
}

func decodePayload(sd avview.SideData) (any, error) {
	switch sd.Kind() {
	case avutil.SideDataContentLightLevel:
		return nilOnError(sd.ContentLightLevel())
	case avutil.SideDataMasteringDisplayMetadata:
		return nilOnError(sd.MasteringDisplay())
	case avutil.SideDataDisplayMatrix:
		m, err := sd.DisplayMatrix()
		if err != nil {
			return nil, err
		}
		p := DisplayMatrixPayload{Matrix: m}
		if rot := m.Rotation(); !math.IsNaN(rot) {
			p.Rotation = &rot
		}
		return p, nil
	case avutil.SideDataStereo3D:
		return nilOnError(sd.Stereo3D())
	case avutil.SideDataRegionsOfInterest:
		return nilOnError(sd.RegionsOfInterest())
	case avutil.SideDataPanScan:
		return nilOnError(sd.PanScan())
	case avutil.SideDataReplayGain:
		return nilOnError(sd.ReplayGain())
	case avutil.SideDataSkipSamples:
		return nilOnError(sd.SkipSamples())
	case avutil.SideDataAFD:
		return nilOnError(sd.AFD())
	case avutil.SideDataMatrixEncoding:
		return nilOnError(sd.MatrixEncoding())
	case avutil.SideDataAudioServiceType:
		return nilOnError(sd.AudioServiceType())
	case avutil.SideDataDownMixInfo:
		return nilOnError(sd.DownmixInfo())
	}
	return nil, nil
}

func nilOnError[T any](v T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}
