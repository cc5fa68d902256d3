package isobmff

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// MediaData is the container state needed downstream: the raw moov atom and,
// for fragmented files, every top-level moof atom in file order.
type MediaData struct {
	Moov       []byte
	Moofs      [][]byte
	Fragmented bool
}

type Scanner struct {
	log zerolog.Logger
}

func NewScanner(log zerolog.Logger) *Scanner {
	return &Scanner{log: log.With().Str("component", "scanner").Logger()}
}

// FindAtom walks atoms from start and returns the first one of the wanted
// type. Only headers are read for atoms that do not match.
func (s *Scanner) FindAtom(r RangeReader, fourCC string, start int64) (Atom, error) {
	offset := start
	for {
		size, found, err := ReadAtomHeader(r, offset)
		if errors.Is(err, io.EOF) {
			return Atom{}, fmt.Errorf("%w: %q after offset %d", ErrAtomNotFound, fourCC, start)
		}
		if err != nil {
			return Atom{}, err
		}
		s.log.Trace().Str("type", found).Uint32("size", size).Int64("offset", offset).Msg("atom header")
		if found == fourCC {
			raw, err := readAtom(r, offset, size)
			if err != nil {
				return Atom{}, err
			}
			return Atom{Type: found, Size: size, Offset: offset, Raw: raw}, nil
		}
		offset += int64(size)
	}
}

// LocateFragments collects the raw bytes of every top-level moof from start
// until the first mfra atom or the end of the stream.
func (s *Scanner) LocateFragments(r RangeReader, start int64) ([][]byte, error) {
	var moofs [][]byte
	offset := start
	for {
		size, fourCC, err := ReadAtomHeader(r, offset)
		if errors.Is(err, io.EOF) {
			return moofs, nil
		}
		if err != nil {
			return nil, err
		}
		switch fourCC {
		case "mfra":
			s.log.Trace().Int64("offset", offset).Int("moofs", len(moofs)).Msg("fragment index reached")
			return moofs, nil
		case "moof":
			raw, err := readAtom(r, offset, size)
			if err != nil {
				return nil, err
			}
			moofs = append(moofs, raw)
		}
		offset += int64(size)
	}
}

// ReadMediaData locates moov and, when moov carries an mvex child, the moof
// atoms that follow it.
func (s *Scanner) ReadMediaData(r RangeReader) (MediaData, error) {
	moov, err := s.FindAtom(r, "moov", 0)
	if err != nil {
		return MediaData{}, err
	}
	data := MediaData{Moov: moov.Raw}
	if !HasChild(moov.Payload(), "mvex") {
		s.log.Debug().Int64("offset", moov.Offset).Msg("no mvex in moov, container is not fragmented")
		return data, nil
	}

	first, err := s.FindAtom(r, "moof", moov.Offset+int64(moov.Size))
	if err != nil {
		return MediaData{}, err
	}
	moofs, err := s.LocateFragments(r, first.Offset)
	if err != nil {
		return MediaData{}, err
	}
	s.log.Debug().Int("moofs", len(moofs)).Int64("first_moof", first.Offset).Msg("fragments located")
	data.Moofs = moofs
	data.Fragmented = true
	return data, nil
}

func readAtom(r RangeReader, offset int64, size uint32) ([]byte, error) {
	raw, err := r.ReadRange(offset, int64(size))
	if err != nil {
		return nil, fmt.Errorf("read atom at offset %d: %w", offset, err)
	}
	if len(raw) < int(size) {
		return nil, fmt.Errorf("%w: atom at offset %d declares %d bytes, %d available", ErrMalformedContainer, offset, size, len(raw))
	}
	return raw, nil
}
