package source

import "bytes"

// Reader is a Source narrowed to one entry.
type Reader struct {
	src  Source
	name string
}

func Bind(src Source, name string) Reader {
	return Reader{src: src, name: name}
}

func (r Reader) Name() string {
	return r.name
}

func (r Reader) ReadRange(offset, length int64) ([]byte, error) {
	return r.src.ReadRange(r.name, offset, length)
}

// Bytes serves ranges from an in-memory buffer.
type Bytes []byte

func (b Bytes) ReadRange(offset, length int64) ([]byte, error) {
	return readAt(bytes.NewReader(b), int64(len(b)), offset, length)
}
