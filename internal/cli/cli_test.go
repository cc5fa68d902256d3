package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/autobrr/go-ismingest/internal/config"
	bt "github.com/autobrr/go-ismingest/internal/isobmff/boxtest"
)

func mediaFile() []byte {
	trak := bt.Trak(bt.Track{
		ID:        1,
		Handler:   "vide",
		Timescale: 90000,
		Duration:  900000,
		Stsd:      bt.Stsd("avc1", bt.VisualEntry(640, 360, bt.AvcC([]byte{0x67}, []byte{0x68}))),
		Stsz:      bt.StszUniform(1000, 10),
	})
	return append(bt.Box("ftyp", []byte("isom")), bt.Box("moov", bt.Mvhd(1000, 10000), trak)...)
}

func TestRunJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "clip.mp4"), mediaFile(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	code := Run(Options{Flags: config.Flags{Directory: dir, Output: "json"}}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("code=%d stderr=%s", code, stderr.String())
	}
	var out struct {
		Manifest string `json:"manifest"`
		Media    []struct {
			File string `json:"file"`
		} `json:"media"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout.String())
	}
	if out.Manifest != "clip" || len(out.Media) != 1 || out.Media[0].File != "clip.mp4" {
		t.Fatalf("out=%+v", out)
	}
	if !strings.Contains(stderr.String(), "batch processed") {
		t.Fatalf("stderr=%s", stderr.String())
	}
}

func TestRunConfigError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(Options{ConfigPath: filepath.Join(t.TempDir(), "none.yaml")}, &stdout, &stderr)
	if code != exitConfig || !strings.Contains(stderr.String(), config.ErrCodeNotFound) {
		t.Fatalf("code=%d stderr=%s", code, stderr.String())
	}
}

func TestRunEmptyDirectory(t *testing.T) {
	t.Chdir(t.TempDir())
	var stdout, stderr bytes.Buffer
	code := Run(Options{Flags: config.Flags{Directory: t.TempDir()}}, &stdout, &stderr)
	if code != exitError || stdout.Len() != 0 {
		t.Fatalf("code=%d stdout=%s", code, stdout.String())
	}
}

func TestVersion(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { appVersion = "dev" })
	var buf bytes.Buffer
	Version(&buf)
	if buf.String() != "go-ismingest, v1.2.3\n" {
		t.Fatalf("version=%q", buf.String())
	}
	if FormatVersion("dev") != "dev" || FormatVersion("v0.4") != "v0.4.0" {
		t.Fatalf("format=%q %q", FormatVersion("dev"), FormatVersion("v0.4"))
	}
}
