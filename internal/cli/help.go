package cli

import (
	"fmt"
	"strings"

	"github.com/autobrr/go-ismingest/internal/config"
)

// LongHelp describes the inputs and settings for the root command.
func LongHelp() string {
	var b strings.Builder
	b.WriteString("Reads every media and subtitle file of a directory and reports the\n")
	b.WriteString("per-track data a Smooth Streaming manifest needs.\n")
	b.WriteString("\n")
	b.WriteString("Recognised files:\n")
	b.WriteString("  .mp4 .ismv .isma .cmft   media, fragmented or not\n")
	b.WriteString("  .mpi                     media index, reported apart\n")
	b.WriteString("  .vtt .ttml               subtitles\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Settings are read from %s in the working directory, or from --config.\n", config.DefaultFileName)
	b.WriteString("Keys: local_directory, is_multithreading, workers, manifest_name,\n")
	b.WriteString("log_level, output. Flags override the file.")
	return b.String()
}
