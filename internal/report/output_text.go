package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/autobrr/go-ismingest/internal/pipeline"
	"github.com/autobrr/go-ismingest/internal/track"
)

func RenderText(result pipeline.BatchResult) string {
	view := buildView(result)

	var buf bytes.Buffer
	writeField(&buf, "Manifest", view.Manifest)
	for _, asset := range view.Media {
		buf.WriteString("\n")
		writeAsset(&buf, "Media", asset)
	}
	for _, asset := range view.MediaIndex {
		buf.WriteString("\n")
		writeAsset(&buf, "Media index", asset)
	}
	for _, text := range view.Texts {
		buf.WriteString("\nText\n")
		writeField(&buf, "File", text.Name)
		writeField(&buf, "Start time", fmt.Sprintf("%.3f s", text.StartTime))
		writeField(&buf, "Duration", fmt.Sprintf("%.3f s", text.Duration))
		writeField(&buf, "Bit rate", bitRate(text.BitRate))
	}
	if len(view.Failures) > 0 {
		buf.WriteString("\nFailures\n")
		for _, f := range view.Failures {
			writeField(&buf, f.File, f.Error)
		}
	}
	return strings.TrimRight(buf.String(), "\n") + "\n"
}

func writeAsset(buf *bytes.Buffer, title string, asset assetView) {
	buf.WriteString(title)
	buf.WriteString("\n")
	writeField(buf, "File", asset.File)
	if asset.Fragmented {
		writeField(buf, "Fragments", humanize.Comma(int64(asset.Fragments)))
	}
	if asset.Timescale > 0 {
		writeField(buf, "Duration", fmt.Sprintf("%.3f s", float64(asset.Duration)/float64(asset.Timescale)))
	}
	for _, d := range asset.Tracks {
		buf.WriteString("\n")
		writeTrack(buf, d)
	}
	for _, failure := range asset.Failures {
		writeField(buf, "Track failure", failure)
	}
}

func writeTrack(buf *bytes.Buffer, d track.Descriptor) {
	fmt.Fprintf(buf, "%s #%d\n", d.Kind, d.TrackID)
	writeField(buf, "Format", d.Format)
	writeField(buf, "FourCC", d.FourCC)
	writeField(buf, "Bit rate", bitRate(d.BitRate))
	if d.Size > 0 {
		writeField(buf, "Stream size", humanize.Bytes(d.Size))
	}
	if d.Language != "" {
		writeField(buf, "Language", d.Language)
	}
	if d.Video != nil {
		writeField(buf, "Width", fmt.Sprintf("%d pixels", d.Video.Width))
		writeField(buf, "Height", fmt.Sprintf("%d pixels", d.Video.Height))
	}
	if d.Audio != nil {
		writeField(buf, "Channels", fmt.Sprintf("%d", d.Audio.Channels))
		writeField(buf, "Sampling rate", humanize.SIWithDigits(float64(d.Audio.SampleRate), 1, "Hz"))
		writeField(buf, "Bit depth", fmt.Sprintf("%d bits", d.Audio.BitsPerSample))
		writeField(buf, "Packet size", fmt.Sprintf("%d", d.Audio.PacketSize))
	}
	if d.CodecPrivateData != "" {
		writeField(buf, "Codec private data", d.CodecPrivateData)
	}
}

func bitRate(bps int64) string {
	return humanize.SIWithDigits(float64(bps), 1, "b/s")
}

func writeField(buf *bytes.Buffer, name, value string) {
	buf.WriteString(padRight(name, 24))
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\n")
}

func padRight(value string, width int) string {
	if len(value) >= width {
		return value
	}
	return value + strings.Repeat(" ", width-len(value))
}
