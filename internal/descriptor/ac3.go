package descriptor

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/Eyevinn/mp4ff/bits"
)

var ErrUnsupportedStreamLayout = errors.New("unsupported stream layout")

const dac3Size = 3

// AC3Descriptor is one AC3SpecificBox unit.
type AC3Descriptor struct {
	Fscod            uint8
	Bsid             uint8
	Bsmod            uint8
	Acmod            uint8
	LFE              bool
	BitRateCode      uint8
	SampleRate       uint32
	Channels         uint16
	BitRate          uint32
	CodecPrivateData string
}

func ParseAC3Descriptors(payload []byte) ([]AC3Descriptor, error) {
	if len(payload)%dac3Size != 0 {
		return nil, fmt.Errorf("dac3: %d bytes is not a whole number of descriptors", len(payload))
	}
	descriptors := make([]AC3Descriptor, 0, len(payload)/dac3Size)
	for offset := 0; offset < len(payload); offset += dac3Size {
		unit := payload[offset : offset+dac3Size]
		d, err := parseAC3Descriptor(unit)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

func parseAC3Descriptor(unit []byte) (AC3Descriptor, error) {
	r := bits.NewReader(bytes.NewReader(unit))
	d := AC3Descriptor{
		Fscod: uint8(r.Read(2)),
		Bsid:  uint8(r.Read(5)),
		Bsmod: uint8(r.Read(3)),
		Acmod: uint8(r.Read(3)),
		LFE:   r.Read(1) == 1,
	}
	d.BitRateCode = uint8(r.Read(5))
	if err := r.AccError(); err != nil {
		return AC3Descriptor{}, fmt.Errorf("dac3: %w", err)
	}
	d.SampleRate = ac3SampleRate(d.Fscod)
	d.Channels = ac3Channels(d.Acmod, d.LFE)
	d.BitRate = ac3BitRateKbps(d.BitRateCode) * 1000
	d.CodecPrivateData = hex.EncodeToString(unit)
	return d, nil
}

func ac3SampleRate(fscod uint8) uint32 {
	switch fscod {
	case 0:
		return 48000
	case 1:
		return 44100
	case 2:
		return 32000
	default:
		return 0
	}
}

func ac3Channels(acmod uint8, lfe bool) uint16 {
	full := [8]uint16{2, 1, 2, 3, 3, 4, 4, 5}
	channels := full[acmod&0x07]
	if lfe {
		channels++
	}
	return channels
}

func ac3BitRateKbps(code uint8) uint32 {
	bitRates := []uint32{32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 448, 512, 576, 640}
	if int(code) >= len(bitRates) {
		return 0
	}
	return bitRates[code]
}
