package track

import (
	"errors"
	"fmt"

	"github.com/autobrr/go-ismingest/internal/isobmff"
)

var ErrTrackExtractionFailed = errors.New("track extraction failed")

type Kind int

const (
	KindAudio Kind = iota + 1
	KindVideo
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "Audio"
	case KindVideo:
		return "Video"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Audio":
		*k = KindAudio
	case "Video":
		*k = KindVideo
	case "Text":
		*k = KindText
	default:
		return fmt.Errorf("unknown track kind %q", text)
	}
	return nil
}

func kindFromHandler(handler string) (Kind, bool) {
	switch handler {
	case "vide":
		return KindVideo, true
	case "soun":
		return KindAudio, true
	case "text", "sbtl", "subt":
		return KindText, true
	default:
		return 0, false
	}
}

// Descriptor is the finalized description of one track.
type Descriptor struct {
	TrackID          uint32     `json:"track_id" yaml:"track_id"`
	Kind             Kind       `json:"kind" yaml:"kind"`
	Format           string     `json:"format" yaml:"format"`
	FourCC           string     `json:"four_cc" yaml:"four_cc"`
	CodecPrivateData string     `json:"codec_private_data" yaml:"codec_private_data"`
	BitRate          int64      `json:"bit_rate" yaml:"bit_rate"`
	Timescale        uint32     `json:"timescale" yaml:"timescale"`
	Duration         uint64     `json:"duration" yaml:"duration"`
	Language         string     `json:"language,omitempty" yaml:"language,omitempty"`
	Size             uint64     `json:"size" yaml:"size"`
	Video            *VideoInfo `json:"video,omitempty" yaml:"video,omitempty"`
	Audio            *AudioInfo `json:"audio,omitempty" yaml:"audio,omitempty"`
}

type VideoInfo struct {
	Width  uint16 `json:"width" yaml:"width"`
	Height uint16 `json:"height" yaml:"height"`
}

type AudioInfo struct {
	Channels      uint16 `json:"channels" yaml:"channels"`
	SampleRate    uint32 `json:"sample_rate" yaml:"sample_rate"`
	BitsPerSample uint16 `json:"bits_per_sample" yaml:"bits_per_sample"`
	PacketSize    uint16 `json:"packet_size" yaml:"packet_size"`
}

// FragmentEntry is the run total of one track inside one moof.
type FragmentEntry struct {
	TrackID  uint32
	Duration float64
	ByteSize uint64
}

// MediaAssetData is everything extracted from one media file. Failures holds
// the tracks that could not be resolved.
type MediaAssetData struct {
	Name      string
	Media     isobmff.MediaData
	Timescale uint32
	Duration  uint64
	Tracks    []Descriptor
	Failures  []error
}

// ExtractionError identifies the track whose header or type could not be
// decoded. TrackID is 0 when the track header itself was unreadable.
type ExtractionError struct {
	TrackID uint32
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("track %d: %v", e.TrackID, e.Err)
}

func (e *ExtractionError) Unwrap() []error {
	return []error{ErrTrackExtractionFailed, e.Err}
}
