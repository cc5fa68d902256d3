package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/autobrr/go-ismingest/internal/config"
	"github.com/autobrr/go-ismingest/internal/logging"
	"github.com/autobrr/go-ismingest/internal/pipeline"
	"github.com/autobrr/go-ismingest/internal/report"
	"github.com/autobrr/go-ismingest/internal/source"
)

const (
	exitOK     = 0
	exitError  = 1
	exitConfig = 2
)

type Options struct {
	ConfigPath string
	Flags      config.Flags
	// Console selects human readable log lines instead of JSON.
	Console bool
}

// Run processes one directory and writes the report to stdout. Logs go to
// stderr. The exit code is non-zero when the configuration is unusable, the
// batch fails or no file could be processed.
func Run(opts Options, stdout, stderr io.Writer) int {
	cfg, err := config.LoadEffective(opts.ConfigPath, opts.Flags)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitConfig
	}

	log, err := logging.New(stderr, cfg.LogLevel, opts.Console)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitConfig
	}
	log.Debug().
		Str("directory", cfg.Directory).
		Str("settings", cfg.File).
		Bool("multithreading", cfg.Multithreading).
		Int("workers", cfg.Workers).
		Msg("configuration loaded")

	src, err := source.OpenDir(cfg.Directory)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}

	result, err := pipeline.New(log, pipeline.Options{
		Multithreading: cfg.Multithreading,
		Workers:        cfg.Workers,
		ManifestName:   cfg.ManifestName,
	}).Process(src)
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptySource) {
			fmt.Fprintf(stderr, "%s: %v\n", cfg.Directory, err)
		} else {
			fmt.Fprintln(stderr, err.Error())
		}
		return exitError
	}

	output, err := report.Render(cfg.Output, result)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}
	fmt.Fprint(stdout, output)

	if len(result.Media)+len(result.MediaIndex)+len(result.Texts) == 0 {
		return exitError
	}
	return exitOK
}
