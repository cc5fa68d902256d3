package track

import (
	"bytes"
	"fmt"

	"github.com/Eyevinn/mp4ff/mp4"
)

// decodeFragment sums sample durations and sizes per traf of one moof.
// Durations are converted to seconds with the track's media timescale.
func (x *Extractor) decodeFragment(raw []byte, timescales map[uint32]uint32, trex map[uint32]trexDefaults) ([]FragmentEntry, error) {
	box, err := mp4.DecodeBox(0, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode moof: %w", err)
	}
	moof, ok := box.(*mp4.MoofBox)
	if !ok {
		return nil, fmt.Errorf("decode moof: got %s box", box.Type())
	}

	entries := make([]FragmentEntry, 0, len(moof.Trafs))
	for _, traf := range moof.Trafs {
		if traf.Tfhd == nil {
			continue
		}
		id := traf.Tfhd.TrackID
		timescale := timescales[id]
		if timescale == 0 {
			x.log.Warn().Uint32("track_id", id).Msg("fragment run for a track without media timescale")
			continue
		}

		defaults := trex[id]
		if traf.Tfhd.HasDefaultSampleDuration() {
			defaults.Duration = traf.Tfhd.DefaultSampleDuration
		}
		if traf.Tfhd.HasDefaultSampleSize() {
			defaults.Size = traf.Tfhd.DefaultSampleSize
		}

		var duration, size uint64
		for _, trun := range traf.Truns {
			count := int(trun.SampleCount())
			for i := 0; i < count; i++ {
				dur, sz := defaults.Duration, defaults.Size
				if i < len(trun.Samples) {
					if trun.HasSampleDuration() {
						dur = trun.Samples[i].Dur
					}
					if trun.HasSampleSize() {
						sz = trun.Samples[i].Size
					}
				}
				duration += uint64(dur)
				size += uint64(sz)
			}
		}
		entries = append(entries, FragmentEntry{
			TrackID:  id,
			Duration: float64(duration) / float64(timescale),
			ByteSize: size,
		})
	}
	return entries, nil
}
