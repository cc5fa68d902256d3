package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/autobrr/go-ismingest/internal/cli"
)

var version = "dev"

var opts cli.Options

var rootCmd = &cobra.Command{
	Use:           "ismingest [flags] [directory]",
	Short:         "Extract Smooth Streaming track data from ISO-BMFF and subtitle files.",
	Long:          cli.LongHelp(),
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			opts.Flags.Directory = args[0]
		}
		flags := cmd.Flags()
		opts.Flags.MultithreadingSet = flags.Changed("multithreading")
		opts.Flags.WorkersSet = flags.Changed("workers")
		opts.Console = isatty.IsTerminal(os.Stderr.Fd())
		os.Exit(cli.Run(opts, cmd.OutOrStdout(), cmd.ErrOrStderr()))
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print go-ismingest version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli.Version(cmd.OutOrStdout())
		return nil
	},
	DisableFlagsInUseLine: true,
}

func init() {
	cli.SetVersion(resolveVersion())
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
	bindFlags(rootCmd.Flags())
	rootCmd.AddCommand(versionCmd)
}

func bindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&opts.ConfigPath, "config", "c", "", "settings file (default ./ismingest.yaml when present)")
	fs.BoolVar(&opts.Flags.Multithreading, "multithreading", true, "process files in parallel")
	fs.IntVarP(&opts.Flags.Workers, "workers", "w", 0, "parallel workers, 0 for one per logical core")
	fs.StringVar(&opts.Flags.ManifestName, "manifest-name", "", "manifest name instead of the first file's stem")
	fs.StringVarP(&opts.Flags.Output, "output", "o", "", "report format: text, json or yaml")
	fs.StringVar(&opts.Flags.LogLevel, "log-level", "", "trace, debug, info, warn or error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func resolveVersion() string {
	if version != "" && version != "dev" {
		return normalizeVersion(version)
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return normalizeVersion(info.Main.Version)
		}
	}
	return "dev"
}

func normalizeVersion(value string) string {
	return strings.TrimPrefix(value, "v")
}
