package main

import "testing"

func TestNormalizeVersion(t *testing.T) {
	cases := map[string]string{
		"v1.4.0": "1.4.0",
		"1.4.0":  "1.4.0",
		"dev":    "dev",
	}
	for in, want := range cases {
		if got := normalizeVersion(in); got != want {
			t.Fatalf("%s: got %q want %q", in, got, want)
		}
	}
}

func TestBindFlags(t *testing.T) {
	if err := rootCmd.ParseFlags([]string{"--workers=3", "--multithreading=false", "-o", "yaml"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	fs := rootCmd.Flags()
	if !fs.Changed("workers") || !fs.Changed("multithreading") || fs.Changed("manifest-name") {
		t.Fatalf("changed flags not tracked")
	}
	if opts.Flags.Workers != 3 || opts.Flags.Multithreading || opts.Flags.Output != "yaml" {
		t.Fatalf("flags=%+v", opts.Flags)
	}
}
