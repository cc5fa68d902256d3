package isobmff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const HeaderSize = 8

var (
	ErrMalformedContainer = errors.New("malformed container")
	ErrAtomNotFound       = errors.New("atom not found")
)

// RangeReader serves byte ranges of a single entry. A negative length reads
// to the end; reading at or past the end returns no bytes and no error.
type RangeReader interface {
	ReadRange(offset, length int64) ([]byte, error)
}

// Atom is one framed record. Raw holds the full atom, header included.
type Atom struct {
	Type   string
	Size   uint32
	Offset int64
	Raw    []byte
}

func (a Atom) Payload() []byte {
	if len(a.Raw) < HeaderSize {
		return nil
	}
	return a.Raw[HeaderSize:]
}

// ReadAtomHeader reads the 8 byte header at offset. It returns io.EOF when no
// bytes remain at offset.
func ReadAtomHeader(r RangeReader, offset int64) (uint32, string, error) {
	header, err := r.ReadRange(offset, HeaderSize)
	if err != nil {
		return 0, "", fmt.Errorf("read atom header at offset %d: %w", offset, err)
	}
	if len(header) == 0 {
		return 0, "", io.EOF
	}
	return ParseAtomHeader(header, offset)
}

func ParseAtomHeader(header []byte, offset int64) (uint32, string, error) {
	if len(header) < HeaderSize {
		return 0, "", fmt.Errorf("%w: truncated header at offset %d (%d bytes)", ErrMalformedContainer, offset, len(header))
	}
	size := binary.BigEndian.Uint32(header[0:4])
	fourCC := string(header[4:8])
	switch {
	case size == 0:
		return 0, fourCC, fmt.Errorf("%w: %q at offset %d extends to end of stream", ErrMalformedContainer, fourCC, offset)
	case size == 1:
		return 0, fourCC, fmt.Errorf("%w: %q at offset %d uses a 64-bit size", ErrMalformedContainer, fourCC, offset)
	case size < HeaderSize:
		return 0, fourCC, fmt.Errorf("%w: %q at offset %d declares size %d", ErrMalformedContainer, fourCC, offset, size)
	}
	return size, fourCC, nil
}

// Children splits a container payload into its direct child atoms. On a
// malformed child it returns the atoms framed so far together with the error.
func Children(buf []byte) ([]Atom, error) {
	var atoms []Atom
	var offset int64
	for offset < int64(len(buf)) {
		size, fourCC, err := ParseAtomHeader(sliceBox(buf, offset, HeaderSize), offset)
		if err != nil {
			return atoms, err
		}
		end := offset + int64(size)
		if end > int64(len(buf)) {
			return atoms, fmt.Errorf("%w: %q at offset %d overruns its parent by %d bytes", ErrMalformedContainer, fourCC, offset, end-int64(len(buf)))
		}
		atoms = append(atoms, Atom{Type: fourCC, Size: size, Offset: offset, Raw: buf[offset:end]})
		offset = end
	}
	return atoms, nil
}

// Find returns the first atom of the given type.
func Find(atoms []Atom, fourCC string) (Atom, bool) {
	for _, atom := range atoms {
		if atom.Type == fourCC {
			return atom, true
		}
	}
	return Atom{}, false
}

// HasChild reports whether a container payload holds a direct child of the
// given type.
func HasChild(payload []byte, fourCC string) bool {
	atoms, _ := Children(payload)
	_, ok := Find(atoms, fourCC)
	return ok
}

func sliceBox(buf []byte, offset, length int64) []byte {
	if offset < 0 || length < 0 {
		return nil
	}
	end := offset + length
	if end > int64(len(buf)) {
		end = int64(len(buf))
	}
	if offset > end {
		return nil
	}
	return buf[offset:end]
}
