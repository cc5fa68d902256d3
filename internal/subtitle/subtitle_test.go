package subtitle

import (
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
)

const sampleVTT = `WEBVTT

00:00:01.000 --> 00:00:03.000
Hello

00:00:04.000 --> 00:00:11.000
World
`

const sampleTTML = `<?xml version="1.0" encoding="UTF-8"?>
<tt xmlns="http://www.w3.org/ns/ttml" xml:lang="en">
  <body>
    <div>
      <p begin="00:00:02.000" end="00:00:04.000">First</p>
      <p begin="00:00:05.000" end="00:00:12.000">Last</p>
    </div>
  </body>
</tt>
`

func TestParseWebVTT(t *testing.T) {
	info, err := NewAdapter(zerolog.Nop()).Parse("asset.vtt", []byte(sampleVTT))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if info.Name != "asset.vtt" || info.StartTime != 1 || info.Duration != 10 {
		t.Fatalf("info=%+v", info)
	}
	if want := int64(len(sampleVTT) * 8 / 10); info.BitRate != want {
		t.Fatalf("bit_rate=%d want %d", info.BitRate, want)
	}
}

func TestParseWebVTTWithBOM(t *testing.T) {
	data := append([]byte{0xef, 0xbb, 0xbf}, sampleVTT...)
	info, err := NewAdapter(zerolog.Nop()).Parse("bom.vtt", data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if info.StartTime != 1 || info.Duration != 10 {
		t.Fatalf("info=%+v", info)
	}
}

func TestParseTTML(t *testing.T) {
	info, err := NewAdapter(zerolog.Nop()).Parse("asset.ttml", []byte(sampleTTML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if math.Abs(info.StartTime-2) > 1e-9 || math.Abs(info.Duration-10) > 1e-9 {
		t.Fatalf("info=%+v", info)
	}
}

func TestParseRejectsUnknownContent(t *testing.T) {
	_, err := NewAdapter(zerolog.Nop()).Parse("notes.vtt", []byte("1\n00:00:01,000 --> 00:00:02,000\nsrt\n"))
	if !errors.Is(err, ErrUnknownTextFormat) {
		t.Fatalf("err=%v", err)
	}
}

func TestParseWithoutCues(t *testing.T) {
	_, err := NewAdapter(zerolog.Nop()).Parse("empty.vtt", []byte("WEBVTT\n"))
	if !errors.Is(err, ErrNoCues) {
		t.Fatalf("err=%v", err)
	}
}

func TestBitRate(t *testing.T) {
	if got := BitRate(1000, 4); got != 2000 {
		t.Fatalf("bit_rate=%d", got)
	}
	if got := BitRate(1000, 0); got != 0 {
		t.Fatalf("bit_rate=%d", got)
	}
}
