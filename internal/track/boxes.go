package track

import (
	"fmt"

	"github.com/Eyevinn/mp4ff/bits"
)

type movieHeader struct {
	Timescale uint32
	Duration  uint64
}

func parseMvhd(payload []byte) (movieHeader, error) {
	r := bits.NewFixedSliceReader(payload)
	version := r.ReadUint8()
	r.SkipBytes(3)
	var h movieHeader
	switch version {
	case 0:
		r.SkipBytes(8)
		h.Timescale = r.ReadUint32()
		h.Duration = uint64(r.ReadUint32())
	case 1:
		r.SkipBytes(16)
		h.Timescale = r.ReadUint32()
		h.Duration = r.ReadUint64()
	default:
		return movieHeader{}, fmt.Errorf("mvhd: unknown version %d", version)
	}
	if err := r.AccError(); err != nil {
		return movieHeader{}, fmt.Errorf("mvhd: %w", err)
	}
	return h, nil
}

func parseTkhdTrackID(payload []byte) (uint32, error) {
	r := bits.NewFixedSliceReader(payload)
	version := r.ReadUint8()
	r.SkipBytes(3)
	switch version {
	case 0:
		r.SkipBytes(8)
	case 1:
		r.SkipBytes(16)
	default:
		return 0, fmt.Errorf("tkhd: unknown version %d", version)
	}
	id := r.ReadUint32()
	if err := r.AccError(); err != nil {
		return 0, fmt.Errorf("tkhd: %w", err)
	}
	return id, nil
}

type mediaHeader struct {
	Timescale uint32
	Duration  uint64
	Language  string
}

func parseMdhd(payload []byte) (mediaHeader, error) {
	h, err := parseMvhd(payload)
	if err != nil {
		return mediaHeader{}, fmt.Errorf("mdhd: %w", err)
	}
	offset := 20
	if payload[0] == 1 {
		offset = 32
	}
	m := mediaHeader{Timescale: h.Timescale, Duration: h.Duration}
	if len(payload) >= offset+2 {
		m.Language = decodeLanguage(uint16(payload[offset])<<8 | uint16(payload[offset+1]))
	}
	return m, nil
}

// decodeLanguage unpacks an ISO-639-2/T code stored as three 5 bit letters.
func decodeLanguage(packed uint16) string {
	if packed == 0 {
		return ""
	}
	code := []byte{
		byte(packed>>10&0x1f) + 0x60,
		byte(packed>>5&0x1f) + 0x60,
		byte(packed&0x1f) + 0x60,
	}
	for _, c := range code {
		if c < 'a' || c > 'z' {
			return ""
		}
	}
	return string(code)
}

func parseHdlr(payload []byte) (string, error) {
	if len(payload) < 12 {
		return "", fmt.Errorf("hdlr: %d bytes", len(payload))
	}
	return string(payload[8:12]), nil
}

type sampleSizes struct {
	Uniform uint32
	Count   uint32
	Entries []uint32
}

func parseStsz(payload []byte) (sampleSizes, error) {
	r := bits.NewFixedSliceReader(payload)
	r.SkipBytes(4)
	s := sampleSizes{Uniform: r.ReadUint32(), Count: r.ReadUint32()}
	if s.Uniform == 0 {
		if int(s.Count) > r.NrRemainingBytes()/4 {
			return sampleSizes{}, fmt.Errorf("stsz: %d entries declared, room for %d", s.Count, r.NrRemainingBytes()/4)
		}
		s.Entries = make([]uint32, s.Count)
		for i := range s.Entries {
			s.Entries[i] = r.ReadUint32()
		}
	}
	if err := r.AccError(); err != nil {
		return sampleSizes{}, fmt.Errorf("stsz: %w", err)
	}
	return s, nil
}

// Total is the byte size of all samples in the table.
func (s sampleSizes) Total() uint64 {
	if s.Uniform != 0 {
		return uint64(s.Uniform) * uint64(s.Count)
	}
	var total uint64
	for _, size := range s.Entries {
		total += uint64(size)
	}
	return total
}

type trexDefaults struct {
	Duration uint32
	Size     uint32
}

func parseTrex(payload []byte) (uint32, trexDefaults, error) {
	r := bits.NewFixedSliceReader(payload)
	r.SkipBytes(4)
	id := r.ReadUint32()
	r.SkipBytes(4) // default_sample_description_index
	d := trexDefaults{Duration: r.ReadUint32(), Size: r.ReadUint32()}
	if err := r.AccError(); err != nil {
		return 0, trexDefaults{}, fmt.Errorf("trex: %w", err)
	}
	return id, d, nil
}
