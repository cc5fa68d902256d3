package pipeline

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/autobrr/go-ismingest/internal/isobmff"
	"github.com/autobrr/go-ismingest/internal/source"
	"github.com/autobrr/go-ismingest/internal/subtitle"
	"github.com/autobrr/go-ismingest/internal/track"
)

var ErrEmptySource = errors.New("no files found in source")

type Options struct {
	Multithreading bool
	Workers        int
	// ManifestName overrides the key taken from the first resolved file.
	ManifestName string
}

// Outcome is the result of processing one file.
type Outcome struct {
	Name   string
	Key    string
	Format Format
	Media  track.MediaAssetData
	Text   subtitle.Info
	Err    error
}

type FileFailure struct {
	Name string
	Err  error
}

// BatchResult aggregates every file of one source. Media and MediaIndex are
// keyed by file name.
type BatchResult struct {
	ManifestName string
	Media        map[string]track.MediaAssetData
	MediaIndex   map[string]track.MediaAssetData
	Texts        []subtitle.Info
	Failures     []FileFailure
}

type Processor struct {
	log       zerolog.Logger
	opts      Options
	executor  Executor
	scanner   *isobmff.Scanner
	extractor *track.Extractor
	subtitles *subtitle.Adapter
}

func New(log zerolog.Logger, opts Options) *Processor {
	return &Processor{
		log:       log.With().Str("component", "pipeline").Logger(),
		opts:      opts,
		executor:  NewExecutor(opts.Multithreading, opts.Workers),
		scanner:   isobmff.NewScanner(log),
		extractor: track.NewExtractor(log),
		subtitles: subtitle.NewAdapter(log),
	}
}

// Process lists the source, runs one task per recognised file and merges the
// outcomes. Per-file failures are logged and recorded; only an unreadable or
// empty listing fails the batch.
func (p *Processor) Process(src source.Source) (BatchResult, error) {
	p.log.Info().Msg("listing source files")
	entries, err := src.List()
	if err != nil {
		return BatchResult{}, fmt.Errorf("list source: %w", err)
	}
	if len(entries) == 0 {
		p.log.Error().Msg("no files found in source")
		return BatchResult{}, ErrEmptySource
	}

	tasks := make([]Task, 0, len(entries))
	for _, entry := range entries {
		key, format := DetectFormat(entry.Name)
		if format == FormatUnknown {
			p.log.Info().Str("file", entry.Name).Msg("unrecognised format, skipped")
			continue
		}
		tasks = append(tasks, p.task(src, entry, key, format))
	}

	result := BatchResult{
		Media:      make(map[string]track.MediaAssetData),
		MediaIndex: make(map[string]track.MediaAssetData),
	}
	for outcome := range p.executor.Run(tasks) {
		if outcome.Err != nil {
			p.log.Error().Err(outcome.Err).Str("file", outcome.Name).Msg("error processing file")
			result.Failures = append(result.Failures, FileFailure{Name: outcome.Name, Err: outcome.Err})
			continue
		}
		if result.ManifestName == "" {
			result.ManifestName = outcome.Key
		}
		switch {
		case outcome.Format.IsIndex():
			result.MediaIndex[outcome.Name] = outcome.Media
		case outcome.Format.IsMedia():
			result.Media[outcome.Name] = outcome.Media
		case outcome.Format.IsText():
			result.Texts = append(result.Texts, outcome.Text)
		}
	}
	if p.opts.ManifestName != "" {
		result.ManifestName = p.opts.ManifestName
	}
	p.log.Info().
		Str("manifest", result.ManifestName).
		Int("media", len(result.Media)).
		Int("media_index", len(result.MediaIndex)).
		Int("texts", len(result.Texts)).
		Int("failures", len(result.Failures)).
		Msg("batch processed")
	return result, nil
}

func (p *Processor) task(src source.Source, entry source.Entry, key string, format Format) Task {
	return func() (outcome Outcome) {
		outcome = Outcome{Name: entry.Name, Key: key, Format: format}
		defer func() {
			if r := recover(); r != nil {
				outcome.Err = fmt.Errorf("panic: %v", r)
			}
		}()
		p.log.Info().Str("file", entry.Name).Stringer("format", format).Msg("handle file")
		if format.IsText() {
			outcome.Text, outcome.Err = p.processText(src, entry.Name)
		} else {
			outcome.Media, outcome.Err = p.processMedia(src, entry.Name)
		}
		return outcome
	}
}

func (p *Processor) processMedia(src source.Source, name string) (track.MediaAssetData, error) {
	media, err := p.scanner.ReadMediaData(source.Bind(src, name))
	if err != nil {
		return track.MediaAssetData{}, err
	}
	return p.extractor.Extract(name, media)
}

func (p *Processor) processText(src source.Source, name string) (subtitle.Info, error) {
	data, err := src.ReadRange(name, 0, -1)
	if err != nil {
		return subtitle.Info{}, err
	}
	return p.subtitles.Parse(name, data)
}
