package isobmff

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/autobrr/go-ismingest/internal/source"
)

const fuzzMaxBytes = 1 << 20 // 1 MiB

func fuzzLimit(data []byte) []byte {
	if len(data) > fuzzMaxBytes {
		return data[:fuzzMaxBytes]
	}
	return data
}

func FuzzReadMediaData(f *testing.F) {
	f.Add([]byte{})
	f.Add(box("moov", box("mvex", nil)))
	f.Add(append(box("moov", box("mvex", nil)), box("moof", nil)...))
	f.Add([]byte{0, 0, 0, 1, 'm', 'o', 'o', 'v'})

	scanner := NewScanner(zerolog.Nop())
	f.Fuzz(func(t *testing.T, data []byte) {
		data = fuzzLimit(data)
		_, _ = scanner.ReadMediaData(source.Bytes(data))
		_, _ = Children(data)
	})
}
