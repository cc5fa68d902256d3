package descriptor

import (
	"fmt"

	"github.com/Eyevinn/mp4ff/bits"
)

const hvcCHeaderSize = 22

// ParseHEVCNALUnits flattens the NAL unit arrays of an hvcC payload in
// declaration order, typically VPS, SPS, PPS.
func ParseHEVCNALUnits(payload []byte) ([][]byte, error) {
	if len(payload) < hvcCHeaderSize+1 {
		return nil, fmt.Errorf("hvcC: %d bytes is shorter than the fixed header", len(payload))
	}
	r := bits.NewFixedSliceReader(payload)
	r.SkipBytes(hvcCHeaderSize)
	arrays := int(r.ReadUint8())
	var nalus [][]byte
	for i := 0; i < arrays; i++ {
		r.SkipBytes(1) // completeness and NAL unit type
		count := int(r.ReadUint16())
		for j := 0; j < count; j++ {
			n := int(r.ReadUint16())
			nalus = append(nalus, r.ReadBytes(n))
		}
	}
	if err := r.AccError(); err != nil {
		return nil, fmt.Errorf("hvcC: %w", err)
	}
	return nalus, nil
}
