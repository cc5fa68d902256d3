// Package report renders a batch result as text, JSON or YAML.
package report

import (
	"fmt"
	"sort"

	"github.com/autobrr/go-ismingest/internal/pipeline"
	"github.com/autobrr/go-ismingest/internal/subtitle"
	"github.com/autobrr/go-ismingest/internal/track"
)

type batchView struct {
	Manifest   string          `json:"manifest" yaml:"manifest"`
	Media      []assetView     `json:"media" yaml:"media"`
	MediaIndex []assetView     `json:"media_index,omitempty" yaml:"media_index,omitempty"`
	Texts      []subtitle.Info `json:"texts,omitempty" yaml:"texts,omitempty"`
	Failures   []failureView   `json:"failures,omitempty" yaml:"failures,omitempty"`
}

type assetView struct {
	File       string             `json:"file" yaml:"file"`
	Fragmented bool               `json:"fragmented" yaml:"fragmented"`
	Fragments  int                `json:"fragments" yaml:"fragments"`
	Timescale  uint32             `json:"timescale" yaml:"timescale"`
	Duration   uint64             `json:"duration" yaml:"duration"`
	Tracks     []track.Descriptor `json:"tracks" yaml:"tracks"`
	Failures   []string           `json:"failures,omitempty" yaml:"failures,omitempty"`
}

type failureView struct {
	File  string `json:"file" yaml:"file"`
	Error string `json:"error" yaml:"error"`
}

func buildView(result pipeline.BatchResult) batchView {
	view := batchView{
		Manifest:   result.ManifestName,
		Media:      assetViews(result.Media),
		MediaIndex: assetViews(result.MediaIndex),
		Texts:      append([]subtitle.Info(nil), result.Texts...),
	}
	if view.Media == nil {
		view.Media = []assetView{}
	}
	sort.Slice(view.Texts, func(i, j int) bool { return view.Texts[i].Name < view.Texts[j].Name })
	for _, f := range result.Failures {
		view.Failures = append(view.Failures, failureView{File: f.Name, Error: f.Err.Error()})
	}
	sort.Slice(view.Failures, func(i, j int) bool { return view.Failures[i].File < view.Failures[j].File })
	return view
}

func assetViews(assets map[string]track.MediaAssetData) []assetView {
	if len(assets) == 0 {
		return nil
	}
	names := make([]string, 0, len(assets))
	for name := range assets {
		names = append(names, name)
	}
	sort.Strings(names)

	views := make([]assetView, 0, len(names))
	for _, name := range names {
		asset := assets[name]
		v := assetView{
			File:       name,
			Fragmented: asset.Media.Fragmented,
			Fragments:  len(asset.Media.Moofs),
			Timescale:  asset.Timescale,
			Duration:   asset.Duration,
			Tracks:     asset.Tracks,
		}
		if v.Tracks == nil {
			v.Tracks = []track.Descriptor{}
		}
		for _, err := range asset.Failures {
			v.Failures = append(v.Failures, err.Error())
		}
		views = append(views, v)
	}
	return views
}

// Render dispatches on the output name accepted by the configuration.
func Render(output string, result pipeline.BatchResult) (string, error) {
	switch output {
	case "json":
		return RenderJSON(result)
	case "yaml":
		return RenderYAML(result)
	case "text", "":
		return RenderText(result), nil
	default:
		return "", fmt.Errorf("output format not implemented: %s", output)
	}
}
