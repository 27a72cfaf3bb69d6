//go:build !ios && !android && (amd64 || arm64)

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/obinnaokechukwu/avview"
	"gopkg.in/yaml.v3"
)

// Report is everything one command prints.
type Report struct {
	ID       string           `json:"id" yaml:"id"`
	Command  string           `json:"command" yaml:"command"`
	Info     *InfoReport      `json:"info,omitempty" yaml:"info,omitempty"`
	Backends *BackendsReport  `json:"backends,omitempty" yaml:"backends,omitempty"`
	Devices  []DeviceReport   `json:"devices,omitempty" yaml:"devices,omitempty"`
	SideData []SideDataReport `json:"side_data,omitempty" yaml:"side_data,omitempty"`
}

func newReport(command string) *Report {
	return &Report{ID: uuid.NewString(), Command: command}
}

// LibraryInfo describes one loaded FFmpeg library.
type LibraryInfo struct {
	Version       string `json:"version" yaml:"version"`
	Path          string `json:"path,omitempty" yaml:"path,omitempty"`
	Configuration string `json:"configuration,omitempty" yaml:"configuration,omitempty"`
	License       string `json:"license,omitempty" yaml:"license,omitempty"`
}

// InfoReport is the output of the info command.
type InfoReport struct {
	AVUtil   LibraryInfo `json:"avutil" yaml:"avutil"`
	AVDevice LibraryInfo `json:"avdevice" yaml:"avdevice"`
	// SideDataTable is the libavutil major whose side-data numbering is in use.
	SideDataTable uint32 `json:"side_data_table" yaml:"side_data_table"`
}

// BackendsReport is the output of the backends command.
type BackendsReport struct {
	InputVideo  []avview.Backend `json:"input_video" yaml:"input_video"`
	InputAudio  []avview.Backend `json:"input_audio" yaml:"input_audio"`
	OutputVideo []avview.Backend `json:"output_video" yaml:"output_video"`
	OutputAudio []avview.Backend `json:"output_audio" yaml:"output_audio"`
}

// DeviceReport lists what one backend reported in one direction.
type DeviceReport struct {
	Backend   string              `json:"backend" yaml:"backend"`
	Direction string              `json:"direction" yaml:"direction"`
	Default   int                 `json:"default" yaml:"default"`
	Devices   []avview.DeviceInfo `json:"devices" yaml:"devices"`
	Error     string              `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorCode int32               `json:"error_code,omitempty" yaml:"error_code,omitempty"`
}

// SideDataReport describes one side-data block of a frame.
type SideDataReport struct {
	Type     string            `json:"type" yaml:"type"`
	Tag      int32             `json:"tag" yaml:"tag"`
	Name     string            `json:"name" yaml:"name"`
	Size     int               `json:"size" yaml:"size"`
	Payload  any               `json:"payload,omitempty" yaml:"payload,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

func writeReport(w io.Writer, format string, r *Report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		return writeText(w, r)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func writeText(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if info := r.Info; info != nil {
		fmt.Fprintf(tw, "libavutil\t%s\t%s\n", info.AVUtil.Version, info.AVUtil.Path)
		fmt.Fprintf(tw, "libavdevice\t%s\t%s\n", info.AVDevice.Version, info.AVDevice.Path)
		fmt.Fprintf(tw, "license\t%s\t\n", info.AVUtil.License)
		fmt.Fprintf(tw, "side data tags\tavutil %d\t\n", info.SideDataTable)
		if info.AVDevice.Configuration != "" {
			fmt.Fprintf(tw, "configuration\t%s\t\n", info.AVDevice.Configuration)
		}
	}

	if b := r.Backends; b != nil {
		groups := []struct {
			title    string
			backends []avview.Backend
		}{
			{"input video", b.InputVideo},
			{"input audio", b.InputAudio},
			{"output video", b.OutputVideo},
			{"output audio", b.OutputAudio},
		}
		for _, g := range groups {
			fmt.Fprintf(tw, "%s:\t\t\n", g.title)
			for _, be := range g.backends {
				fmt.Fprintf(tw, "  %s\t%s\t\n", be.Name, be.LongName)
			}
		}
	}

	for _, d := range r.Devices {
		fmt.Fprintf(tw, "%s %s:\t\t\n", d.Backend, d.Direction)
		if d.Error != "" {
			fmt.Fprintf(tw, "  error\t%s\t\n", d.Error)
			continue
		}
		if len(d.Devices) == 0 {
			fmt.Fprintf(tw, "  (none)\t\t\n")
		}
		for i, dev := range d.Devices {
			mark := " "
			if i == d.Default {
				mark = "*"
			}
			fmt.Fprintf(tw, " %s%s\t%s\t%s\n", mark, dev.Name, dev.Description, mediaTypes(dev.MediaTypes))
		}
	}

	for _, sd := range r.SideData {
		fmt.Fprintf(tw, "%s\t%d bytes\t%s\n", sd.Type, sd.Size, sd.Name)
		if sd.Payload != nil {
			fmt.Fprintf(tw, "  payload\t%+v\t\n", sd.Payload)
		}
		for _, k := range slices.Sorted(maps.Keys(sd.Metadata)) {
			fmt.Fprintf(tw, "  %s\t%s\t\n", k, sd.Metadata[k])
		}
	}

	return tw.Flush()
}

func mediaTypes(types []avview.MediaType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ",")
}
