// Package config merges the settings file with command line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	// ErrCodeNotFound means the settings file named by the caller does not exist.
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid means the settings file or a merged value is unusable.
	ErrCodeInvalid = "config_invalid"
	// ErrCodeMissingDirectory means neither flags nor file name a directory.
	ErrCodeMissingDirectory = "config_missing_directory"
)

const (
	DefaultFileName = "ismingest.yaml"
	DefaultOutput   = "text"
	DefaultLogLevel = "info"
)

// Flags carries the command line values. The *Set fields record whether a
// value was given explicitly, so that --multithreading=false can override
// the file.
type Flags struct {
	Directory string

	Multithreading    bool
	MultithreadingSet bool

	Workers    int
	WorkersSet bool

	ManifestName string
	LogLevel     string
	Output       string
}

// FileConfig mirrors ismingest.yaml.
type FileConfig struct {
	LocalDirectory   string `yaml:"local_directory"`
	IsMultithreading *bool  `yaml:"is_multithreading"`
	Workers          int    `yaml:"workers"`
	ManifestName     string `yaml:"manifest_name"`
	LogLevel         string `yaml:"log_level"`
	Output           string `yaml:"output"`
}

type EffectiveConfig struct {
	Directory      string
	Multithreading bool
	// Workers is 0 when the executor should pick the core count.
	Workers      int
	ManifestName string
	LogLevel     string
	Output       string
	// File is the settings file that was read, empty when none was.
	File string
}

type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s: settings file %q not found", e.Code, e.Path)
	case ErrCodeMissingDirectory:
		return fmt.Sprintf("%s: no directory given and %q has no local_directory", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s: %q: %v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s: %q", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code extracts the error code, or "" when err is not an *Error.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective reads the settings file and merges it with flags.
//
// An explicit path must exist. Without one, DefaultFileName in the working
// directory is read when present. Precedence is flag, then file, then the
// built-in default. A relative local_directory is resolved against the
// directory holding the settings file.
func LoadEffective(path string, flags Flags) (EffectiveConfig, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultFileName
	}

	fc, exists, err := readFileConfig(path)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}
	if explicit && !exists {
		return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: path, Err: os.ErrNotExist}
	}

	file := ""
	if exists {
		file = path
	}
	return merge(flags, fc, file)
}

func merge(flags Flags, fc FileConfig, file string) (EffectiveConfig, error) {
	directory := strings.TrimSpace(flags.Directory)
	if directory == "" && strings.TrimSpace(fc.LocalDirectory) != "" {
		directory = fc.LocalDirectory
		if !filepath.IsAbs(directory) && file != "" {
			directory = filepath.Join(filepath.Dir(file), directory)
		}
	}
	if directory == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeMissingDirectory, Path: file}
	}
	directory = filepath.Clean(directory)
	info, err := os.Stat(directory)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: file, Err: fmt.Errorf("local_directory: %w", err)}
	}
	if !info.IsDir() {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: file, Err: fmt.Errorf("local_directory %q is not a directory", directory)}
	}

	multithreading := true
	if flags.MultithreadingSet {
		multithreading = flags.Multithreading
	} else if fc.IsMultithreading != nil {
		multithreading = *fc.IsMultithreading
	}

	workers := fc.Workers
	if flags.WorkersSet {
		workers = flags.Workers
	}
	if workers < 0 {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: file, Err: fmt.Errorf("workers must not be negative, got %d", workers)}
	}

	output := pick(flags.Output, fc.Output, DefaultOutput)
	output = strings.ToLower(output)
	switch output {
	case "text", "json", "yaml":
	default:
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: file, Err: fmt.Errorf("output must be text, json or yaml, got %q", output)}
	}

	logLevel := strings.ToLower(pick(flags.LogLevel, fc.LogLevel, DefaultLogLevel))
	if _, err := zerolog.ParseLevel(logLevel); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: file, Err: fmt.Errorf("log_level: %w", err)}
	}

	return EffectiveConfig{
		Directory:      directory,
		Multithreading: multithreading,
		Workers:        workers,
		ManifestName:   pick(flags.ManifestName, fc.ManifestName, ""),
		LogLevel:       logLevel,
		Output:         output,
		File:           file,
	}, nil
}

func pick(flag, file, def string) string {
	if v := strings.TrimSpace(flag); v != "" {
		return v
	}
	if v := strings.TrimSpace(file); v != "" {
		return v
	}
	return def
}

func readFileConfig(path string) (FileConfig, bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}

	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
