package descriptor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func writeBox(buf *bytes.Buffer, typ string, payload []byte) {
	var header [8]byte
	binary.BigEndian.PutUint32(header[0:4], uint32(len(payload)+8))
	copy(header[4:8], typ)
	buf.Write(header[:])
	buf.Write(payload)
}

func box(typ string, payload []byte) []byte {
	var buf bytes.Buffer
	writeBox(&buf, typ, payload)
	return buf.Bytes()
}

func buildStsd(format string, body []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x00, 0x00, 0x00})
	binary.Write(&buf, binary.BigEndian, uint32(1))
	writeBox(&buf, format, body)
	return buf.Bytes()
}

func visualBody(width, height uint16, children ...[]byte) []byte {
	body := make([]byte, 78)
	binary.BigEndian.PutUint16(body[6:8], 1)
	binary.BigEndian.PutUint16(body[24:26], width)
	binary.BigEndian.PutUint16(body[26:28], height)
	for _, child := range children {
		body = append(body, child...)
	}
	return body
}

func audioBody(channels, bitsPerSample, packetSize, sampleRate uint16, children ...[]byte) []byte {
	body := make([]byte, 28)
	binary.BigEndian.PutUint16(body[6:8], 1)
	binary.BigEndian.PutUint16(body[16:18], channels)
	binary.BigEndian.PutUint16(body[18:20], bitsPerSample)
	binary.BigEndian.PutUint16(body[22:24], packetSize)
	binary.BigEndian.PutUint16(body[24:26], sampleRate)
	for _, child := range children {
		body = append(body, child...)
	}
	return body
}

func buildAvcC(sps, pps []byte) []byte {
	payload := []byte{0x01, 0x64, 0x00, 0x1f, 0xff, 0xe1}
	payload = binary.BigEndian.AppendUint16(payload, uint16(len(sps)))
	payload = append(payload, sps...)
	payload = append(payload, 0x01)
	payload = binary.BigEndian.AppendUint16(payload, uint16(len(pps)))
	payload = append(payload, pps...)
	return box("avcC", payload)
}

func buildHvcC(nalus ...[]byte) []byte {
	payload := make([]byte, hvcCHeaderSize)
	payload[0] = 0x01
	payload = append(payload, byte(len(nalus)))
	for i, nalu := range nalus {
		payload = append(payload, byte(32+i))
		payload = binary.BigEndian.AppendUint16(payload, 1)
		payload = binary.BigEndian.AppendUint16(payload, uint16(len(nalu)))
		payload = append(payload, nalu...)
	}
	return box("hvcC", payload)
}

// 48 kHz, acmod 7 (3/2), LFE on, 384 kbps.
var dac3Unit = []byte{0x10, 0x3d, 0xc0}

func mustParse(t *testing.T, format string, body []byte) SampleEntry {
	t.Helper()
	entry, err := ParseStsd(buildStsd(format, body))
	if err != nil {
		t.Fatalf("parse stsd: %v", err)
	}
	return entry
}

func TestAVCCodecPrivateData(t *testing.T) {
	p := NewParser(zerolog.Nop())
	entry := mustParse(t, "avc1", visualBody(1920, 1080, buildAvcC([]byte{0x01, 0x02}, []byte{0x03, 0x04})))

	got, err := p.CodecPrivateData(entry)
	if err != nil {
		t.Fatalf("cpd: %v", err)
	}
	if want := "00000001" + "0102" + "00000001" + "0304"; got != want {
		t.Fatalf("cpd=%q want %q", got, want)
	}
	if p.Width(entry) != 1920 || p.Height(entry) != 1080 {
		t.Fatalf("size=%dx%d", p.Width(entry), p.Height(entry))
	}
}

func TestAVCMissingConfigIsEmpty(t *testing.T) {
	p := NewParser(zerolog.Nop())
	entry := mustParse(t, "avc1", visualBody(640, 360))
	got, err := p.CodecPrivateData(entry)
	if err != nil || got != "" {
		t.Fatalf("cpd=%q err=%v", got, err)
	}

	noPPS := box("avcC", []byte{0x01, 0x64, 0x00, 0x1f, 0xff, 0xe1, 0x00, 0x01, 0x67, 0x00})
	entry = mustParse(t, "avc1", visualBody(640, 360, noPPS))
	got, err = p.CodecPrivateData(entry)
	if err != nil || got != "" {
		t.Fatalf("cpd=%q err=%v", got, err)
	}
}

func TestHEVCCodecPrivateData(t *testing.T) {
	p := NewParser(zerolog.Nop())
	entry := mustParse(t, "hvc1", visualBody(1280, 720, buildHvcC([]byte{0xaa}, []byte{0xbb, 0xbb}, []byte{0xcc})))

	got, err := p.CodecPrivateData(entry)
	if err != nil {
		t.Fatalf("cpd: %v", err)
	}
	if got != "00000001bbbb00000001cc" {
		t.Fatalf("cpd=%q", got)
	}
	if entry.Visual != nil {
		t.Fatalf("hvc1 entries carry dimensions in the opaque data")
	}
	if p.Width(entry) != 1280 || p.Height(entry) != 720 {
		t.Fatalf("size=%dx%d", p.Width(entry), p.Height(entry))
	}

	entry = mustParse(t, "hvc1", visualBody(1280, 720, buildHvcC([]byte{0xaa}, []byte{0xbb})))
	got, err = p.CodecPrivateData(entry)
	if err != nil || got != "" {
		t.Fatalf("cpd=%q err=%v", got, err)
	}
}

func TestAC3DescriptorCardinality(t *testing.T) {
	p := NewParser(zerolog.Nop())

	entry := mustParse(t, "ac-3", audioBody(0, 0, 0, 0, box("dac3", dac3Unit)))
	d, err := p.AC3(entry)
	if err != nil {
		t.Fatalf("ac3: %v", err)
	}
	if d.SampleRate != 48000 || d.Channels != 6 || d.BitRate != 384000 {
		t.Fatalf("descriptor=%+v", d)
	}
	if d.CodecPrivateData != "103dc0" {
		t.Fatalf("cpd=%q", d.CodecPrivateData)
	}

	two := append(append([]byte{}, dac3Unit...), dac3Unit...)
	entry = mustParse(t, "ac-3", audioBody(0, 0, 0, 0, box("dac3", two)))
	if _, err := p.AC3(entry); !errors.Is(err, ErrUnsupportedStreamLayout) {
		t.Fatalf("err=%v", err)
	}
	if _, err := p.CodecPrivateData(entry); !errors.Is(err, ErrUnsupportedStreamLayout) {
		t.Fatalf("err=%v", err)
	}
}

func TestAudioFieldDefaults(t *testing.T) {
	p := NewParser(zerolog.Nop())

	ac3 := mustParse(t, "ac-3", audioBody(6, 24, 0, 44100, box("dac3", dac3Unit)))
	if p.BitsPerSample(ac3) != 16 || p.Channels(ac3) != 2 || p.SamplingRate(ac3) != 48000 {
		t.Fatalf("ac-3 defaults: bits=%d channels=%d rate=%d", p.BitsPerSample(ac3), p.Channels(ac3), p.SamplingRate(ac3))
	}
	if p.PacketSize(ac3) != 0 {
		t.Fatalf("packet=%d", p.PacketSize(ac3))
	}

	mp4a := mustParse(t, "mp4a", audioBody(2, 16, 4, 44100))
	if p.BitsPerSample(mp4a) != 16 || p.Channels(mp4a) != 2 || p.SamplingRate(mp4a) != 44100 || p.PacketSize(mp4a) != 4 {
		t.Fatalf("mp4a fields=%+v", *mp4a.Audio)
	}

	unknown := SampleEntry{Format: "opus"}
	if p.BitsPerSample(unknown) != 0 || p.Channels(unknown) != 0 || p.SamplingRate(unknown) != 0 || p.Width(unknown) != 0 {
		t.Fatalf("expected zero fallbacks")
	}
}

func TestAACCodecPrivateData(t *testing.T) {
	var esds []byte
	esds = append(esds, 0x00, 0x00, 0x00, 0x00)
	esds = append(esds, 0x03, 0x19, 0x00, 0x01, 0x00)
	esds = append(esds, 0x04, 0x11, 0x40, 0x15, 0x00, 0x00, 0x00, 0x00, 0x01, 0xf4, 0x00, 0x00, 0x01, 0xf4, 0x00)
	esds = append(esds, 0x05, 0x02, 0x12, 0x10)
	esds = append(esds, 0x06, 0x01, 0x02)

	p := NewParser(zerolog.Nop())
	entry := mustParse(t, "mp4a", audioBody(2, 16, 0, 48000, box("esds", esds)))
	got, err := p.CodecPrivateData(entry)
	if err != nil || got != "1210" {
		t.Fatalf("cpd=%q err=%v", got, err)
	}
	if CodecOf(entry.Format).FourCC() != "AACL" {
		t.Fatalf("fourcc=%q", CodecOf(entry.Format).FourCC())
	}
}

func TestEC3CodecPrivateData(t *testing.T) {
	p := NewParser(zerolog.Nop())
	entry := mustParse(t, "ec-3", audioBody(2, 16, 0, 48000, box("dec3", []byte{0x06, 0x00, 0x20, 0x0f, 0x00})))
	got, err := p.CodecPrivateData(entry)
	if err != nil || got != "0600200f00" {
		t.Fatalf("cpd=%q err=%v", got, err)
	}
}

func TestParseStsdErrors(t *testing.T) {
	empty := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if _, err := ParseStsd(empty); !errors.Is(err, ErrNoSampleEntry) {
		t.Fatalf("err=%v", err)
	}

	payload := buildStsd("avc1", visualBody(1, 1))
	binary.BigEndian.PutUint32(payload[8:12], 4096)
	if _, err := ParseStsd(payload); err == nil {
		t.Fatalf("expected oversized entry error")
	}

	if _, err := ParseStsd([]byte{0, 0}); err == nil {
		t.Fatalf("expected short stsd error")
	}
}

func TestCodecOf(t *testing.T) {
	cases := []struct {
		format string
		codec  Codec
		fourCC string
	}{
		{"avc1", CodecAVC, "H264"},
		{"avc3", CodecAVC, "H264"},
		{"hvc1", CodecHEVC, "HVC1"},
		{"hev1", CodecHEVC, "HVC1"},
		{"mp4a", CodecAAC, "AACL"},
		{"ac-3", CodecAC3, "AC-3"},
		{"ec-3", CodecEC3, "EC-3"},
		{"stpp", CodecTTML, "TTML"},
		{"wvtt", CodecWebVTT, "WVTT"},
		{"vp09", CodecUnsupported, ""},
	}
	for _, tc := range cases {
		codec := CodecOf(tc.format)
		if codec != tc.codec || codec.FourCC() != tc.fourCC {
			t.Fatalf("%s: codec=%v fourcc=%q", tc.format, codec, codec.FourCC())
		}
	}
	if !IsStpp(SampleEntry{Format: "stpp"}) || IsWvtt(SampleEntry{Format: "stpp"}) {
		t.Fatalf("text entry helpers")
	}
}
