//go:build !ios && !android && (amd64 || arm64)

// Command avview reports what the local FFmpeg can see: library versions,
// device backends, the devices they enumerate, and how frame side data reads
// back.
//
// Usage:
//
//	avview [-config avview.yaml] [-output text|json|yaml] info
//	avview [flags] backends
//	avview [flags] devices [backend ...]
//	avview [flags] sidedata
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/obinnaokechukwu/avview"
	"github.com/obinnaokechukwu/avview/avutil"
	"github.com/obinnaokechukwu/avview/cmd/avview/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "avview: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("avview", flag.ContinueOnError)
	configFilePath := fs.String("config", "avview.yaml", "Set the file path to the config file.")
	output := fs.String("output", "", "Output format: text, json or yaml. Overrides the config file.")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: avview [flags] info|backends|devices [backend ...]|sidedata\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("missing command")
	}

	v := config.New()
	if err := config.LoadConfig(v, *configFilePath); err != nil {
		return err
	}
	if *output != "" {
		v.Set("output", *output)
	}
	settings, err := config.Resolve(v)
	if err != nil {
		return err
	}

	logFile, err := config.ConfigureLogger(settings)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	// --------------------------------------------------------------------------------

	avview.SetLibraryPaths(settings.LibraryPaths...)
	if err := avview.Init(); err != nil {
		return fmt.Errorf("loading FFmpeg: %w", err)
	}
	level, err := avutil.ParseLogLevel(settings.FFmpegLogLevel)
	if err != nil {
		return err
	}
	if err := avview.SetFFmpegLogLevel(level); err != nil {
		return err
	}

	// --------------------------------------------------------------------------------

	command := fs.Arg(0)
	r := newReport(command)
	slog.Debug("running command", "command", command, "report", r.ID)

	switch command {
	case "info":
		err = runInfo(r)
	case "backends":
		err = runBackends(r)
	case "devices":
		names := fs.Args()[1:]
		if len(names) == 0 {
			names = settings.Backends
		}
		err = runDevices(r, names)
	case "sidedata":
		err = runSideData(r)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}

	return writeReport(stdout, settings.Output, r)
}
