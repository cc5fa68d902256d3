package subtitle

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/asticode/go-astisub"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrUnknownTextFormat = errors.New("no WebVTT or TTML signature")
	ErrNoCues            = errors.New("subtitle has no cues")
)

// Info is the cue span of a subtitle file and its bit rate.
type Info struct {
	Name      string  `json:"name" yaml:"name"`
	StartTime float64 `json:"start_time" yaml:"start_time"`
	Duration  float64 `json:"duration" yaml:"duration"`
	BitRate   int64   `json:"bit_rate" yaml:"bit_rate"`
}

type Adapter struct {
	log zerolog.Logger
}

func NewAdapter(log zerolog.Logger) *Adapter {
	return &Adapter{log: log.With().Str("component", "subtitle").Logger()}
}

// Parse decodes a WebVTT or TTML document. The bit rate is computed from the
// size of data as stored, before any byte order mark is removed.
func (a *Adapter) Parse(name string, data []byte) (Info, error) {
	a.log.Info().Str("file", name).Msg("subtitle file found")
	text, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return Info{}, fmt.Errorf("decode %s: %w", name, err)
	}

	var subs *astisub.Subtitles
	switch {
	case bytes.HasPrefix(text, []byte("WEBVTT")):
		subs, err = astisub.ReadFromWebVTT(bytes.NewReader(text))
	case bytes.HasPrefix(text, []byte(`<?xml version="`)):
		subs, err = astisub.ReadFromTTML(bytes.NewReader(text))
	default:
		a.log.Error().Str("file", name).Msg("no valid WebVTT or TTML indication found")
		return Info{}, fmt.Errorf("%s: %w", name, ErrUnknownTextFormat)
	}
	if err != nil {
		return Info{}, fmt.Errorf("parse %s: %w", name, err)
	}
	if len(subs.Items) == 0 {
		return Info{}, fmt.Errorf("%s: %w", name, ErrNoCues)
	}

	start := subs.Items[0].StartAt.Seconds()
	end := subs.Items[len(subs.Items)-1].EndAt.Seconds()
	info := Info{
		Name:      name,
		StartTime: start,
		Duration:  end - start,
	}
	info.BitRate = BitRate(int64(len(data)), info.Duration)
	return info, nil
}

func BitRate(size int64, duration float64) int64 {
	if duration <= 0 {
		return 0
	}
	return int64(float64(size) * 8 / duration)
}
