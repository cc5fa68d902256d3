package descriptor

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog"
)

const (
	ac3DefaultBitsPerSample = 16
	ac3DefaultChannels      = 2
	ac3DefaultSampleRate    = 48000
)

// Parser extracts codec private data and numeric fields from sample entries.
// Missing optional data is logged and reported as zero or empty values.
type Parser struct {
	log zerolog.Logger
}

func NewParser(log zerolog.Logger) *Parser {
	return &Parser{log: log.With().Str("component", "descriptor").Logger()}
}

// CodecPrivateData returns the hex codec private data for the entry. The only
// error is a layout the manifest cannot describe, such as several AC-3
// substreams.
func (p *Parser) CodecPrivateData(e SampleEntry) (string, error) {
	switch CodecOf(e.Format) {
	case CodecAVC:
		return p.avcPrivateData(e), nil
	case CodecHEVC:
		return p.hevcPrivateData(e), nil
	case CodecAAC:
		return p.aacPrivateData(e), nil
	case CodecAC3:
		d, err := p.AC3(e)
		if err != nil {
			return "", err
		}
		return d.CodecPrivateData, nil
	case CodecEC3:
		box, ok := e.Box("dec3")
		if !ok {
			p.log.Warn().Str("format", e.Format).Msg("dec3 box missing")
			return "", nil
		}
		return hex.EncodeToString(box.Payload()), nil
	case CodecTTML, CodecWebVTT:
		return "", nil
	default:
		p.log.Info().Str("format", e.Format).Msg("unsupported sample entry, no codec private data")
		return "", nil
	}
}

// AC3 returns the single dac3 descriptor of an AC-3 entry.
func (p *Parser) AC3(e SampleEntry) (AC3Descriptor, error) {
	box, ok := e.Box("dac3")
	if !ok {
		return AC3Descriptor{}, fmt.Errorf("%w: ac-3 entry without dac3", ErrUnsupportedStreamLayout)
	}
	descriptors, err := ParseAC3Descriptors(box.Payload())
	if err != nil {
		return AC3Descriptor{}, err
	}
	if len(descriptors) != 1 {
		p.log.Error().Int("substreams", len(descriptors)).Msg("unexpected dac3 substream count")
		return AC3Descriptor{}, fmt.Errorf("%w: %d dac3 substreams, expected 1", ErrUnsupportedStreamLayout, len(descriptors))
	}
	return descriptors[0], nil
}

func (p *Parser) avcPrivateData(e SampleEntry) string {
	p.log.Debug().Str("format", e.Format).Msg("video codec private data")
	box, ok := e.Box("avcC")
	if !ok {
		p.log.Warn().Str("format", e.Format).Int("boxes", len(e.Boxes)).Msg("avcC box missing")
		return ""
	}
	cfg, err := ParseAVCConfig(box.Payload())
	if err != nil {
		p.log.Warn().Err(err).Msg("avcC unreadable")
		return ""
	}
	if len(cfg.SPS) == 0 || len(cfg.PPS) == 0 {
		p.log.Warn().Int("sps", len(cfg.SPS)).Int("pps", len(cfg.PPS)).Msg("avcC parameter sets missing")
		return ""
	}
	return AnnexB(cfg.SPS[0], cfg.PPS[0])
}

func (p *Parser) hevcPrivateData(e SampleEntry) string {
	p.log.Debug().Str("format", e.Format).Msg("video codec private data")
	box, ok := e.Box("hvcC")
	if !ok {
		p.log.Warn().Str("format", e.Format).Int("boxes", len(e.Boxes)).Msg("hvcC box missing")
		return ""
	}
	nalus, err := ParseHEVCNALUnits(box.Payload())
	if err != nil {
		p.log.Warn().Err(err).Msg("hvcC unreadable")
		return ""
	}
	if len(nalus) < 3 {
		p.log.Warn().Int("nalus", len(nalus)).Msg("hvcC carries fewer than 3 NAL units")
		return ""
	}
	return AnnexB(nalus[1], nalus[2])
}

func (p *Parser) aacPrivateData(e SampleEntry) string {
	box, ok := e.Box("esds")
	if !ok {
		p.log.Warn().Str("format", e.Format).Msg("esds box missing")
		return ""
	}
	info, err := ParseDecoderSpecificInfo(box.Payload())
	if err != nil {
		p.log.Warn().Err(err).Msg("esds unreadable")
		return ""
	}
	return hex.EncodeToString(info)
}

func (p *Parser) Width(e SampleEntry) uint16 {
	if e.Visual != nil {
		return e.Visual.Width
	}
	if len(e.Data) >= 18 {
		return binary.BigEndian.Uint16(e.Data[16:18])
	}
	p.log.Info().Str("format", e.Format).Msg("width not found, using 0")
	return 0
}

func (p *Parser) Height(e SampleEntry) uint16 {
	if e.Visual != nil {
		return e.Visual.Height
	}
	if len(e.Data) >= 20 {
		return binary.BigEndian.Uint16(e.Data[18:20])
	}
	p.log.Info().Str("format", e.Format).Msg("height not found, using 0")
	return 0
}

func (p *Parser) BitsPerSample(e SampleEntry) uint16 {
	if e.Audio != nil {
		return e.Audio.BitsPerSample
	}
	if CodecOf(e.Format) == CodecAC3 {
		return ac3DefaultBitsPerSample
	}
	p.log.Warn().Str("format", e.Format).Msg("bits_per_sample not found, using 0")
	return 0
}

func (p *Parser) Channels(e SampleEntry) uint16 {
	if e.Audio != nil {
		return e.Audio.Channels
	}
	if CodecOf(e.Format) == CodecAC3 {
		return ac3DefaultChannels
	}
	p.log.Warn().Str("format", e.Format).Msg("channels not found, using 0")
	return 0
}

func (p *Parser) SamplingRate(e SampleEntry) uint32 {
	if e.Audio != nil {
		return uint32(e.Audio.SampleRate)
	}
	if CodecOf(e.Format) == CodecAC3 {
		return ac3DefaultSampleRate
	}
	p.log.Warn().Str("format", e.Format).Msg("sampling_rate not found, using 0")
	return 0
}

func (p *Parser) PacketSize(e SampleEntry) uint16 {
	if e.Audio != nil {
		return e.Audio.PacketSize
	}
	p.log.Debug().Str("format", e.Format).Msg("packet_size not found, using 0")
	return 0
}
