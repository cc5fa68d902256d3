package track

// StaticBitRate derives bits per second from a sample table total and the
// movie header duration.
func StaticBitRate(size, duration uint64, timescale uint32) int64 {
	if size == 0 || duration == 0 || timescale == 0 {
		return 0
	}
	seconds := float64(duration) / float64(timescale)
	return int64(float64(size) * 8 / seconds)
}

// FragmentBitRate derives bits per second from the fragment runs that belong
// to trackID. It is 0 when the track has no fragments.
func FragmentBitRate(trackID uint32, entries []FragmentEntry) int64 {
	var bytes uint64
	var seconds float64
	for _, e := range entries {
		if e.TrackID != trackID {
			continue
		}
		bytes += e.ByteSize
		seconds += e.Duration
	}
	if seconds <= 0 {
		return 0
	}
	return int64(float64(bytes) * 8 / seconds)
}
