package track

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/autobrr/go-ismingest/internal/descriptor"
	"github.com/autobrr/go-ismingest/internal/isobmff"
)

// Extractor turns located container atoms into track descriptors.
type Extractor struct {
	log    zerolog.Logger
	parser *descriptor.Parser
}

func NewExtractor(log zerolog.Logger) *Extractor {
	return &Extractor{
		log:    log.With().Str("component", "extractor").Logger(),
		parser: descriptor.NewParser(log),
	}
}

type trackHeader struct {
	ID    uint32
	Kind  Kind
	Media mediaHeader
	Entry descriptor.SampleEntry
	Stbl  []isobmff.Atom
}

// Extract resolves every track of a file. A track whose header or type
// cannot be decoded is recorded in Failures and the remaining tracks still
// resolve. The returned error is reserved for a moov that cannot be read.
func (x *Extractor) Extract(name string, media isobmff.MediaData) (MediaAssetData, error) {
	log := x.log.With().Str("file", name).Logger()
	if len(media.Moov) < isobmff.HeaderSize || string(media.Moov[4:8]) != "moov" {
		return MediaAssetData{}, fmt.Errorf("%w: moov", isobmff.ErrAtomNotFound)
	}
	children, err := isobmff.Children(media.Moov[isobmff.HeaderSize:])
	if err != nil {
		return MediaAssetData{}, fmt.Errorf("moov: %w", err)
	}
	mvhd, ok := isobmff.Find(children, "mvhd")
	if !ok {
		return MediaAssetData{}, fmt.Errorf("%w: mvhd", isobmff.ErrAtomNotFound)
	}
	movie, err := parseMvhd(mvhd.Payload())
	if err != nil {
		return MediaAssetData{}, fmt.Errorf("%w: %v", isobmff.ErrMalformedContainer, err)
	}

	asset := MediaAssetData{
		Name:      name,
		Media:     media,
		Timescale: movie.Timescale,
		Duration:  movie.Duration,
	}

	var headers []trackHeader
	timescales := make(map[uint32]uint32)
	for _, atom := range children {
		if atom.Type != "trak" {
			continue
		}
		h, err := readTrackHeader(atom.Payload())
		if err != nil {
			log.Error().Err(err).Msg("track skipped")
			asset.Failures = append(asset.Failures, err)
			continue
		}
		headers = append(headers, h)
		timescales[h.ID] = h.Media.Timescale
	}

	fragments := x.fragments(log, media.Moofs, timescales, x.trexDefaults(log, children))
	for _, h := range headers {
		d, err := x.resolve(log, h, movie, fragments)
		if err != nil {
			log.Error().Err(err).Uint32("track_id", h.ID).Msg("track skipped")
			asset.Failures = append(asset.Failures, err)
			continue
		}
		asset.Tracks = append(asset.Tracks, d)
	}
	return asset, nil
}

func readTrackHeader(trak []byte) (trackHeader, error) {
	children, err := isobmff.Children(trak)
	if err != nil {
		return trackHeader{}, &ExtractionError{Err: err}
	}
	tkhd, ok := isobmff.Find(children, "tkhd")
	if !ok {
		return trackHeader{}, &ExtractionError{Err: fmt.Errorf("%w: tkhd", isobmff.ErrAtomNotFound)}
	}
	id, err := parseTkhdTrackID(tkhd.Payload())
	if err != nil {
		return trackHeader{}, &ExtractionError{Err: err}
	}

	h := trackHeader{ID: id}
	mdia, err := child(children, "mdia")
	if err != nil {
		return trackHeader{}, &ExtractionError{TrackID: id, Err: err}
	}
	mdhd, ok := isobmff.Find(mdia, "mdhd")
	if !ok {
		return trackHeader{}, &ExtractionError{TrackID: id, Err: fmt.Errorf("%w: mdhd", isobmff.ErrAtomNotFound)}
	}
	if h.Media, err = parseMdhd(mdhd.Payload()); err != nil {
		return trackHeader{}, &ExtractionError{TrackID: id, Err: err}
	}
	hdlr, ok := isobmff.Find(mdia, "hdlr")
	if !ok {
		return trackHeader{}, &ExtractionError{TrackID: id, Err: fmt.Errorf("%w: hdlr", isobmff.ErrAtomNotFound)}
	}
	handler, err := parseHdlr(hdlr.Payload())
	if err != nil {
		return trackHeader{}, &ExtractionError{TrackID: id, Err: err}
	}
	if h.Kind, ok = kindFromHandler(handler); !ok {
		return trackHeader{}, &ExtractionError{TrackID: id, Err: fmt.Errorf("unsupported handler %q", handler)}
	}

	minf, err := child(mdia, "minf")
	if err != nil {
		return trackHeader{}, &ExtractionError{TrackID: id, Err: err}
	}
	if h.Stbl, err = child(minf, "stbl"); err != nil {
		return trackHeader{}, &ExtractionError{TrackID: id, Err: err}
	}
	stsd, ok := isobmff.Find(h.Stbl, "stsd")
	if !ok {
		return trackHeader{}, &ExtractionError{TrackID: id, Err: fmt.Errorf("%w: stsd", isobmff.ErrAtomNotFound)}
	}
	if h.Entry, err = descriptor.ParseStsd(stsd.Payload()); err != nil {
		return trackHeader{}, &ExtractionError{TrackID: id, Err: err}
	}
	return h, nil
}

// child returns the children of the first container of the given type.
func child(atoms []isobmff.Atom, fourCC string) ([]isobmff.Atom, error) {
	atom, ok := isobmff.Find(atoms, fourCC)
	if !ok {
		return nil, fmt.Errorf("%w: %s", isobmff.ErrAtomNotFound, fourCC)
	}
	children, err := isobmff.Children(atom.Payload())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fourCC, err)
	}
	return children, nil
}

func (x *Extractor) resolve(log zerolog.Logger, h trackHeader, movie movieHeader, fragments []FragmentEntry) (Descriptor, error) {
	codec := descriptor.CodecOf(h.Entry.Format)
	d := Descriptor{
		TrackID:   h.ID,
		Kind:      h.Kind,
		Format:    h.Entry.Format,
		FourCC:    codec.FourCC(),
		Timescale: h.Media.Timescale,
		Duration:  h.Media.Duration,
		Language:  h.Media.Language,
		Size:      x.trackSize(log, h),
	}

	if d.Size > 0 {
		d.BitRate = StaticBitRate(d.Size, movie.Duration, movie.Timescale)
		if d.BitRate == 0 {
			log.Warn().Uint32("track_id", h.ID).Msg("movie duration is zero, bit rate unknown")
		}
	} else {
		d.BitRate = FragmentBitRate(h.ID, fragments)
		if d.BitRate == 0 {
			log.Warn().Uint32("track_id", h.ID).Msg("no sample sizes or fragments, bit rate unknown")
		}
	}

	cpd, err := x.parser.CodecPrivateData(h.Entry)
	if err != nil {
		return Descriptor{}, fmt.Errorf("track %d: %w", h.ID, err)
	}
	d.CodecPrivateData = cpd

	switch h.Kind {
	case KindVideo:
		d.Video = &VideoInfo{Width: x.parser.Width(h.Entry), Height: x.parser.Height(h.Entry)}
	case KindAudio:
		d.Audio = x.audioInfo(h.Entry, codec)
	}
	log.Debug().
		Uint32("track_id", d.TrackID).
		Stringer("kind", d.Kind).
		Str("format", d.Format).
		Int64("bit_rate", d.BitRate).
		Msg("track resolved")
	return d, nil
}

func (x *Extractor) audioInfo(e descriptor.SampleEntry, codec descriptor.Codec) *AudioInfo {
	info := &AudioInfo{
		Channels:      x.parser.Channels(e),
		SampleRate:    x.parser.SamplingRate(e),
		BitsPerSample: x.parser.BitsPerSample(e),
		PacketSize:    x.parser.PacketSize(e),
	}
	if codec == descriptor.CodecAC3 {
		if ac3, err := x.parser.AC3(e); err == nil {
			info.Channels = ac3.Channels
			info.SampleRate = ac3.SampleRate
		}
	}
	if info.PacketSize == 0 {
		info.PacketSize = info.Channels * info.BitsPerSample / 8
	}
	return info
}

func (x *Extractor) trackSize(log zerolog.Logger, h trackHeader) uint64 {
	stsz, ok := isobmff.Find(h.Stbl, "stsz")
	if !ok {
		log.Info().Uint32("track_id", h.ID).Msg("no stsz, track size is 0")
		return 0
	}
	sizes, err := parseStsz(stsz.Payload())
	if err != nil {
		log.Warn().Err(err).Uint32("track_id", h.ID).Msg("stsz unreadable, track size is 0")
		return 0
	}
	return sizes.Total()
}

func (x *Extractor) trexDefaults(log zerolog.Logger, moov []isobmff.Atom) map[uint32]trexDefaults {
	defaults := make(map[uint32]trexDefaults)
	mvex, err := child(moov, "mvex")
	if err != nil {
		return defaults
	}
	for _, atom := range mvex {
		if atom.Type != "trex" {
			continue
		}
		id, d, err := parseTrex(atom.Payload())
		if err != nil {
			log.Warn().Err(err).Msg("trex skipped")
			continue
		}
		defaults[id] = d
	}
	return defaults
}

func (x *Extractor) fragments(log zerolog.Logger, moofs [][]byte, timescales map[uint32]uint32, trex map[uint32]trexDefaults) []FragmentEntry {
	var entries []FragmentEntry
	for i, raw := range moofs {
		decoded, err := x.decodeFragment(raw, timescales, trex)
		if err != nil {
			log.Warn().Err(err).Int("moof", i).Msg("fragment skipped")
			continue
		}
		entries = append(entries, decoded...)
	}
	return entries
}
