package descriptor

import (
	"errors"
	"fmt"

	"github.com/Eyevinn/mp4ff/bits"

	"github.com/autobrr/go-ismingest/internal/isobmff"
)

var ErrNoSampleEntry = errors.New("stsd has no sample entry")

// SampleEntry is the first entry of an stsd box. Visual and Audio are nil
// when the entry format does not carry those fields in its layout.
type SampleEntry struct {
	Format             string
	DataReferenceIndex uint16
	Visual             *VisualFields
	Audio              *AudioFields
	// Data is the entry body after the data reference index.
	Data  []byte
	Boxes []isobmff.Atom
}

type VisualFields struct {
	Width  uint16
	Height uint16
}

type AudioFields struct {
	Channels      uint16
	BitsPerSample uint16
	CompressionID uint16
	PacketSize    uint16
	SampleRate    uint16
}

func (e SampleEntry) Box(fourCC string) (isobmff.Atom, bool) {
	return isobmff.Find(e.Boxes, fourCC)
}

type entryLayout struct {
	visual   bool
	audio    bool
	children int
}

// Offsets are relative to the entry body, which starts after the 8 byte
// size and format header.
func layoutFor(format string) entryLayout {
	switch format {
	case "avc1", "avc3":
		return entryLayout{visual: true, children: 78}
	case "hvc1", "hev1":
		return entryLayout{children: 78}
	case "mp4a", "ec-3":
		return entryLayout{audio: true, children: 28}
	case "ac-3":
		return entryLayout{children: 28}
	default:
		return entryLayout{}
	}
}

func ParseStsd(payload []byte) (SampleEntry, error) {
	r := bits.NewFixedSliceReader(payload)
	r.SkipBytes(4) // version and flags
	count := r.ReadUint32()
	if err := r.AccError(); err != nil {
		return SampleEntry{}, fmt.Errorf("stsd header: %w", err)
	}
	if count == 0 {
		return SampleEntry{}, ErrNoSampleEntry
	}
	size := int(r.ReadUint32())
	format := string(r.ReadBytes(4))
	if err := r.AccError(); err != nil {
		return SampleEntry{}, fmt.Errorf("sample entry header: %w", err)
	}
	if size < 16 || size-8 > r.NrRemainingBytes() {
		return SampleEntry{}, fmt.Errorf("sample entry %q declares %d bytes, %d available", format, size, r.NrRemainingBytes()+8)
	}
	return parseEntry(format, r.ReadBytes(size-8))
}

func parseEntry(format string, body []byte) (SampleEntry, error) {
	r := bits.NewFixedSliceReader(body)
	r.SkipBytes(6) // reserved
	entry := SampleEntry{Format: format, DataReferenceIndex: r.ReadUint16()}
	if err := r.AccError(); err != nil {
		return SampleEntry{}, fmt.Errorf("sample entry %q: %w", format, err)
	}
	entry.Data = body[8:]

	layout := layoutFor(format)
	if layout.visual && len(body) >= 28 {
		f := bits.NewFixedSliceReader(body[24:28])
		entry.Visual = &VisualFields{Width: f.ReadUint16(), Height: f.ReadUint16()}
	}
	if layout.audio && len(body) >= 28 {
		f := bits.NewFixedSliceReader(body[16:28])
		entry.Audio = &AudioFields{
			Channels:      f.ReadUint16(),
			BitsPerSample: f.ReadUint16(),
			CompressionID: f.ReadUint16(),
			PacketSize:    f.ReadUint16(),
			SampleRate:    f.ReadUint16(),
		}
	}
	if layout.children > 0 && len(body) > layout.children {
		// Trailing padding after the last child is common; keep what frames.
		entry.Boxes, _ = isobmff.Children(body[layout.children:])
	}
	return entry, nil
}
