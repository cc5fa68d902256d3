package descriptor

import (
	"testing"

	"github.com/rs/zerolog"
)

func FuzzDescriptorParsers(f *testing.F) {
	f.Add([]byte{})
	f.Add(buildStsd("avc1", visualBody(1920, 1080, buildAvcC([]byte{0x67}, []byte{0x68}))))
	f.Add(buildStsd("hvc1", visualBody(1280, 720, buildHvcC([]byte{0x40}, []byte{0x42}, []byte{0x44}))))
	f.Add(buildStsd("ac-3", audioBody(2, 16, 0, 48000, box("dac3", dac3Unit))))

	p := NewParser(zerolog.Nop())
	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 1<<16 {
			data = data[:1<<16]
		}
		_, _ = ParseAVCConfig(data)
		_, _ = ParseHEVCNALUnits(data)
		_, _ = ParseAC3Descriptors(data)
		_, _ = ParseDecoderSpecificInfo(data)
		entry, err := ParseStsd(data)
		if err != nil {
			return
		}
		_, _ = p.CodecPrivateData(entry)
		_ = p.Width(entry)
		_ = p.Height(entry)
		_ = p.PacketSize(entry)
	})
}
