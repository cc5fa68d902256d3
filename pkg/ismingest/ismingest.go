// Package ismingest exposes the directory pipeline and its result types.
package ismingest

import (
	"github.com/rs/zerolog"

	"github.com/autobrr/go-ismingest/internal/pipeline"
	"github.com/autobrr/go-ismingest/internal/report"
	"github.com/autobrr/go-ismingest/internal/source"
	"github.com/autobrr/go-ismingest/internal/subtitle"
	"github.com/autobrr/go-ismingest/internal/track"
)

// Types
type Options = pipeline.Options
type BatchResult = pipeline.BatchResult
type FileFailure = pipeline.FileFailure
type MediaAssetData = track.MediaAssetData
type Descriptor = track.Descriptor
type Kind = track.Kind
type SubtitleInfo = subtitle.Info

// Constants
const (
	KindAudio = track.KindAudio
	KindVideo = track.KindVideo
	KindText  = track.KindText
)

// Errors
var (
	ErrEmptySource           = pipeline.ErrEmptySource
	ErrTrackExtractionFailed = track.ErrTrackExtractionFailed
)

// Functions
func ProcessDir(dir string, log zerolog.Logger, opts Options) (BatchResult, error) {
	src, err := source.OpenDir(dir)
	if err != nil {
		return BatchResult{}, err
	}
	return pipeline.New(log, opts).Process(src)
}

// Rendering
func RenderText(result BatchResult) string {
	return report.RenderText(result)
}

func RenderJSON(result BatchResult) (string, error) {
	return report.RenderJSON(result)
}

func RenderYAML(result BatchResult) (string, error) {
	return report.RenderYAML(result)
}
