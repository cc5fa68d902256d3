package descriptor

import (
	"fmt"

	"github.com/Eyevinn/mp4ff/bits"
)

const (
	tagESDescriptor          = 0x03
	tagDecoderConfig         = 0x04
	tagDecoderSpecificInfo   = 0x05
	decoderConfigFixedLength = 13
)

// ParseDecoderSpecificInfo walks an esds payload down to the
// DecoderSpecificInfo descriptor and returns its bytes.
func ParseDecoderSpecificInfo(payload []byte) ([]byte, error) {
	r := bits.NewFixedSliceReader(payload)
	r.SkipBytes(4) // version and flags
	for r.NrRemainingBytes() > 0 && r.AccError() == nil {
		tag := r.ReadUint8()
		size := readDescriptorSize(r)
		switch tag {
		case tagESDescriptor:
			r.SkipBytes(2) // ES_ID
			flags := r.ReadUint8()
			if flags&0x80 != 0 {
				r.SkipBytes(2)
			}
			if flags&0x40 != 0 {
				r.SkipBytes(int(r.ReadUint8()))
			}
			if flags&0x20 != 0 {
				r.SkipBytes(2)
			}
		case tagDecoderConfig:
			r.SkipBytes(decoderConfigFixedLength)
		case tagDecoderSpecificInfo:
			data := r.ReadBytes(size)
			if err := r.AccError(); err != nil {
				return nil, fmt.Errorf("esds: %w", err)
			}
			return data, nil
		default:
			r.SkipBytes(size)
		}
	}
	if err := r.AccError(); err != nil {
		return nil, fmt.Errorf("esds: %w", err)
	}
	return nil, fmt.Errorf("esds: no decoder specific info")
}

// readDescriptorSize decodes the 7 bit per byte expandable length.
func readDescriptorSize(r *bits.FixedSliceReader) int {
	size := 0
	for i := 0; i < 4; i++ {
		b := r.ReadUint8()
		size = size<<7 | int(b&0x7f)
		if b&0x80 == 0 {
			break
		}
	}
	return size
}
