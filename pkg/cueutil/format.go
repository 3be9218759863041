// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	cueyaml "cuelang.org/go/encoding/yaml"
	"github.com/pelletier/go-toml/v2"
)

const (
	// FormatCUE is a CUE document (.cue).
	FormatCUE Format = "cue"
	// FormatJSON is a JSON document (.json).
	FormatJSON Format = "json"
	// FormatYAML is a YAML document (.yaml, .yml).
	FormatYAML Format = "yaml"
	// FormatTOML is a TOML document (.toml).
	FormatTOML Format = "toml"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid document format")

type (
	// Format names a document serialization.
	Format string

	// InvalidFormatError is returned for an unsupported format or file extension.
	InvalidFormatError struct {
		Value string
	}
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatCUE, FormatJSON, FormatYAML, FormatTOML}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".cue":
		return FormatCUE, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", &InvalidFormatError{Value: ext}
	}
}

// String returns the format name.
func (f Format) String() string { return string(f) }

// IsValid returns whether the Format is one of the supported formats.
func (f Format) IsValid() (bool, []error) {
	switch f {
	case FormatCUE, FormatJSON, FormatYAML, FormatTOML:
		return true, nil
	default:
		return false, []error{&InvalidFormatError{Value: string(f)}}
	}
}

// Extension returns the canonical file extension, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: missing file extension (want .cue, .json, .yaml, .yml or .toml)", ErrInvalidFormat)
	}
	return fmt.Sprintf("%s: %q (want cue, json, yaml or toml)", ErrInvalidFormat, e.Value)
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// compile turns a document of format f into a CUE value in ctx.
func compile(ctx *cue.Context, data []byte, filename string, f Format) (cue.Value, error) {
	switch f {
	case FormatCUE, FormatJSON:
		// JSON is a subset of CUE.
		v := ctx.CompileBytes(data, cue.Filename(filename))
		if v.Err() != nil {
			return cue.Value{}, FormatError(v.Err(), filename)
		}
		return v, nil
	case FormatYAML:
		file, err := cueyaml.Extract(filename, data)
		if err != nil {
			return cue.Value{}, FormatError(err, filename)
		}
		v := ctx.BuildFile(file, cue.Filename(filename))
		if v.Err() != nil {
			return cue.Value{}, FormatError(v.Err(), filename)
		}
		return v, nil
	case FormatTOML:
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return cue.Value{}, formatTOMLError(err, filename)
		}
		v := ctx.Encode(doc)
		if v.Err() != nil {
			return cue.Value{}, FormatError(v.Err(), filename)
		}
		return v, nil
	default:
		return cue.Value{}, &InvalidFormatError{Value: string(f)}
	}
}

// formatTOMLError prefixes a TOML syntax error with its file position.
func formatTOMLError(err error, filename string) error {
	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		row, col := decErr.Position()
		return fmt.Errorf("%s:%d:%d: %w", filename, row, col, err)
	}
	return fmt.Errorf("%s: %w", filename, err)
}
