package descriptor

import (
	"encoding/hex"
	"fmt"

	"github.com/Eyevinn/mp4ff/bits"
)

const startCode = "00000001"

type AVCConfig struct {
	Profile uint8
	Level   uint8
	SPS     [][]byte
	PPS     [][]byte
}

func ParseAVCConfig(payload []byte) (AVCConfig, error) {
	r := bits.NewFixedSliceReader(payload)
	r.SkipBytes(1) // configurationVersion
	cfg := AVCConfig{Profile: r.ReadUint8()}
	r.SkipBytes(1) // profile compatibility
	cfg.Level = r.ReadUint8()
	r.SkipBytes(1) // lengthSizeMinusOne
	spsCount := int(r.ReadUint8() & 0x1f)
	for i := 0; i < spsCount; i++ {
		n := int(r.ReadUint16())
		cfg.SPS = append(cfg.SPS, r.ReadBytes(n))
	}
	ppsCount := int(r.ReadUint8())
	for i := 0; i < ppsCount; i++ {
		n := int(r.ReadUint16())
		cfg.PPS = append(cfg.PPS, r.ReadBytes(n))
	}
	if err := r.AccError(); err != nil {
		return AVCConfig{}, fmt.Errorf("avcC: %w", err)
	}
	return cfg, nil
}

// AnnexB joins two parameter sets as hex, each behind a 4 byte start code.
func AnnexB(first, second []byte) string {
	return startCode + hex.EncodeToString(first) + startCode + hex.EncodeToString(second)
}
