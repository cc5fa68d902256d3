// Package boxtest builds small ISO-BMFF fixtures for tests.
package boxtest

import (
	"encoding/binary"
)

func Box(typ string, payload ...[]byte) []byte {
	size := 8
	for _, p := range payload {
		size += len(p)
	}
	out := make([]byte, 8, size)
	binary.BigEndian.PutUint32(out[0:4], uint32(size))
	copy(out[4:8], typ)
	for _, p := range payload {
		out = append(out, p...)
	}
	return out
}

func Mvhd(timescale, duration uint32) []byte {
	payload := make([]byte, 100)
	binary.BigEndian.PutUint32(payload[12:16], timescale)
	binary.BigEndian.PutUint32(payload[16:20], duration)
	return Box("mvhd", payload)
}

func Tkhd(id uint32) []byte {
	payload := make([]byte, 84)
	binary.BigEndian.PutUint32(payload[12:16], id)
	return Box("tkhd", payload)
}

func Mdhd(timescale, duration uint32, language string) []byte {
	payload := make([]byte, 24)
	binary.BigEndian.PutUint32(payload[12:16], timescale)
	binary.BigEndian.PutUint32(payload[16:20], duration)
	if len(language) == 3 {
		packed := uint16(language[0]-0x60)<<10 | uint16(language[1]-0x60)<<5 | uint16(language[2]-0x60)
		binary.BigEndian.PutUint16(payload[20:22], packed)
	}
	return Box("mdhd", payload)
}

func Hdlr(handler string) []byte {
	payload := make([]byte, 25)
	copy(payload[8:12], handler)
	return Box("hdlr", payload)
}

func Stsd(format string, body []byte) []byte {
	payload := make([]byte, 8)
	binary.BigEndian.PutUint32(payload[4:8], 1)
	return Box("stsd", payload, Box(format, body))
}

func VisualEntry(width, height uint16, children ...[]byte) []byte {
	body := make([]byte, 78)
	binary.BigEndian.PutUint16(body[6:8], 1)
	binary.BigEndian.PutUint16(body[24:26], width)
	binary.BigEndian.PutUint16(body[26:28], height)
	for _, c := range children {
		body = append(body, c...)
	}
	return body
}

func AudioEntry(channels, bitsPerSample, packetSize, sampleRate uint16, children ...[]byte) []byte {
	body := make([]byte, 28)
	binary.BigEndian.PutUint16(body[6:8], 1)
	binary.BigEndian.PutUint16(body[16:18], channels)
	binary.BigEndian.PutUint16(body[18:20], bitsPerSample)
	binary.BigEndian.PutUint16(body[22:24], packetSize)
	binary.BigEndian.PutUint16(body[24:26], sampleRate)
	for _, c := range children {
		body = append(body, c...)
	}
	return body
}

func AvcC(sps, pps []byte) []byte {
	payload := []byte{0x01, 0x64, 0x00, 0x1f, 0xff, 0xe1}
	payload = binary.BigEndian.AppendUint16(payload, uint16(len(sps)))
	payload = append(payload, sps...)
	payload = append(payload, 0x01)
	payload = binary.BigEndian.AppendUint16(payload, uint16(len(pps)))
	payload = append(payload, pps...)
	return Box("avcC", payload)
}

func StszUniform(size, count uint32) []byte {
	payload := make([]byte, 12)
	binary.BigEndian.PutUint32(payload[4:8], size)
	binary.BigEndian.PutUint32(payload[8:12], count)
	return Box("stsz", payload)
}

func StszEntries(sizes ...uint32) []byte {
	payload := make([]byte, 12, 12+4*len(sizes))
	binary.BigEndian.PutUint32(payload[8:12], uint32(len(sizes)))
	for _, s := range sizes {
		payload = binary.BigEndian.AppendUint32(payload, s)
	}
	return Box("stsz", payload)
}

type Track struct {
	ID        uint32
	Handler   string
	Timescale uint32
	Duration  uint32
	Language  string
	// Stsd is a complete stsd box. Stsz is omitted when nil.
	Stsd []byte
	Stsz []byte
}

func Trak(t Track) []byte {
	stbl := [][]byte{t.Stsd}
	if t.Stsz != nil {
		stbl = append(stbl, t.Stsz)
	}
	minf := Box("minf", Box("stbl", stbl...))
	mdia := Box("mdia", Mdhd(t.Timescale, t.Duration, t.Language), Hdlr(t.Handler), minf)
	return Box("trak", Tkhd(t.ID), mdia)
}

func Trex(id, duration, size uint32) []byte {
	payload := make([]byte, 24)
	binary.BigEndian.PutUint32(payload[4:8], id)
	binary.BigEndian.PutUint32(payload[8:12], 1)
	binary.BigEndian.PutUint32(payload[12:16], duration)
	binary.BigEndian.PutUint32(payload[16:20], size)
	return Box("trex", payload)
}

type Sample struct {
	Dur  uint32
	Size uint32
}

func Moof(seq uint32, trafs ...[]byte) []byte {
	mfhd := make([]byte, 8)
	binary.BigEndian.PutUint32(mfhd[4:8], seq)
	return Box("moof", append([][]byte{Box("mfhd", mfhd)}, trafs...)...)
}

// Traf writes a track fragment whose trun carries explicit durations and
// sizes for every sample.
func Traf(id uint32, samples ...Sample) []byte {
	tfhd := make([]byte, 8)
	binary.BigEndian.PutUint32(tfhd[4:8], id)

	trun := make([]byte, 8, 8+8*len(samples))
	binary.BigEndian.PutUint32(trun[0:4], 0x000300)
	binary.BigEndian.PutUint32(trun[4:8], uint32(len(samples)))
	for _, s := range samples {
		trun = binary.BigEndian.AppendUint32(trun, s.Dur)
		trun = binary.BigEndian.AppendUint32(trun, s.Size)
	}
	return Box("traf", Box("tfhd", tfhd), Box("trun", trun))
}

// TrafDefaults writes a track fragment of count samples that rely on the
// tfhd defaults, or on trex when duration and size are 0.
func TrafDefaults(id, duration, size, count uint32) []byte {
	var flags uint32
	tfhd := make([]byte, 8)
	if duration > 0 {
		flags |= 0x000008
		tfhd = binary.BigEndian.AppendUint32(tfhd, duration)
	}
	if size > 0 {
		flags |= 0x000010
		tfhd = binary.BigEndian.AppendUint32(tfhd, size)
	}
	binary.BigEndian.PutUint32(tfhd[0:4], flags)
	binary.BigEndian.PutUint32(tfhd[4:8], id)

	trun := make([]byte, 8)
	binary.BigEndian.PutUint32(trun[4:8], count)
	return Box("traf", Box("tfhd", tfhd), Box("trun", trun))
}
