package pipeline

import (
	"path/filepath"
	"strings"
)

type Format int

const (
	FormatUnknown Format = iota
	FormatMP4
	FormatMPI
	FormatISMV
	FormatISMA
	FormatCMFT
	FormatTTML
	FormatVTT
)

func (f Format) String() string {
	switch f {
	case FormatMP4:
		return "mp4"
	case FormatMPI:
		return "mpi"
	case FormatISMV:
		return "ismv"
	case FormatISMA:
		return "isma"
	case FormatCMFT:
		return "cmft"
	case FormatTTML:
		return "ttml"
	case FormatVTT:
		return "vtt"
	default:
		return "unknown"
	}
}

func (f Format) IsMedia() bool {
	switch f {
	case FormatMP4, FormatMPI, FormatISMV, FormatISMA, FormatCMFT:
		return true
	default:
		return false
	}
}

// IsIndex reports the index-only media variant, kept apart from regular media.
func (f Format) IsIndex() bool {
	return f == FormatMPI
}

func (f Format) IsText() bool {
	return f == FormatTTML || f == FormatVTT
}

// DetectFormat derives the manifest key and the format from a file name.
// The key is the file name without its extension.
func DetectFormat(name string) (string, Format) {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	key := strings.TrimSuffix(base, ext)

	switch strings.ToLower(ext) {
	case ".mp4":
		return key, FormatMP4
	case ".mpi":
		return key, FormatMPI
	case ".ismv":
		return key, FormatISMV
	case ".isma":
		return key, FormatISMA
	case ".cmft":
		return key, FormatCMFT
	case ".ttml":
		return key, FormatTTML
	case ".vtt":
		return key, FormatVTT
	default:
		return key, FormatUnknown
	}
}
