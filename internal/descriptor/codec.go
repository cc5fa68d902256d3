package descriptor

// Codec identifies the sample entry formats the manifest side understands.
type Codec int

const (
	CodecUnsupported Codec = iota
	CodecAVC
	CodecHEVC
	CodecAAC
	CodecAC3
	CodecEC3
	CodecTTML
	CodecWebVTT
)

func CodecOf(format string) Codec {
	switch format {
	case "avc1", "avc3":
		return CodecAVC
	case "hvc1", "hev1":
		return CodecHEVC
	case "mp4a":
		return CodecAAC
	case "ac-3":
		return CodecAC3
	case "ec-3":
		return CodecEC3
	case "stpp":
		return CodecTTML
	case "wvtt":
		return CodecWebVTT
	default:
		return CodecUnsupported
	}
}

// FourCC is the codec code written into smooth streaming manifests.
func (c Codec) FourCC() string {
	switch c {
	case CodecAVC:
		return "H264"
	case CodecHEVC:
		return "HVC1"
	case CodecAAC:
		return "AACL"
	case CodecAC3:
		return "AC-3"
	case CodecEC3:
		return "EC-3"
	case CodecTTML:
		return "TTML"
	case CodecWebVTT:
		return "WVTT"
	default:
		return ""
	}
}

func (c Codec) String() string {
	switch c {
	case CodecAVC:
		return "AVC"
	case CodecHEVC:
		return "HEVC"
	case CodecAAC:
		return "AAC"
	case CodecAC3:
		return "AC-3"
	case CodecEC3:
		return "E-AC-3"
	case CodecTTML:
		return "TTML"
	case CodecWebVTT:
		return "WebVTT"
	default:
		return "unsupported"
	}
}

func IsStpp(e SampleEntry) bool {
	return e.Format == "stpp"
}

func IsWvtt(e SampleEntry) bool {
	return e.Format == "wvtt"
}
