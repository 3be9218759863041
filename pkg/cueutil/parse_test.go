// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Record: {
	name:         string
	count:        int & >=0
	enabled:      bool | *false
	description?: string
	tags: [...string] | *[]
	kind: {type: "fixed", value: int} | {type: "dc"}
}
`

type testKind struct {
	Type  string `json:"type"`
	Value int    `json:"value,omitempty"`
}

type testRecord struct {
	Name        string   `json:"name"`
	Count       int      `json:"count"`
	Enabled     bool     `json:"enabled"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	Kind        testKind `json:"kind"`
}

func TestParseAndDecode_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{
			name:   "cue",
			format: FormatCUE,
			data: `
name: "fire"
count: 3
enabled: true
tags: ["evocation"]
kind: {type: "fixed", value: 12}
`,
		},
		{
			name:   "json",
			format: FormatJSON,
			data:   `{"name": "fire", "count": 3, "enabled": true, "tags": ["evocation"], "kind": {"type": "fixed", "value": 12}}`,
		},
		{
			name:   "yaml",
			format: FormatYAML,
			data: `name: fire
count: 3
enabled: true
tags:
  - evocation
kind:
  type: fixed
  value: 12
`,
		},
		{
			name:   "toml",
			format: FormatTOML,
			data: `name = "fire"
count = 3
enabled = true
tags = ["evocation"]

[kind]
type = "fixed"
value = 12
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := ParseAndDecode[testRecord]([]byte(testSchema), []byte(tt.data), "#Record",
				WithFormat(tt.format), WithFilename("record."+tt.name))
			if err != nil {
				t.Fatalf("ParseAndDecode() error: %v", err)
			}
			got := result.Value
			if got.Name != "fire" || got.Count != 3 || !got.Enabled {
				t.Errorf("scalars = %+v", got)
			}
			if len(got.Tags) != 1 || got.Tags[0] != "evocation" {
				t.Errorf("Tags = %v", got.Tags)
			}
			if got.Kind.Type != "fixed" || got.Kind.Value != 12 {
				t.Errorf("Kind = %+v", got.Kind)
			}
		})
	}
}

func TestParseAndDecode_Defaults(t *testing.T) {
	t.Parallel()

	data := []byte(`name: "minimal"
count: 0
kind: type: "dc"
`)
	result, err := ParseAndDecode[testRecord]([]byte(testSchema), data, "#Record")
	if err != nil {
		t.Fatalf("ParseAndDecode() error: %v", err)
	}
	if result.Value.Enabled {
		t.Error("Enabled should default to false")
	}
	if len(result.Value.Tags) != 0 {
		t.Errorf("Tags should default to an empty list, got %#v", result.Value.Tags)
	}
	if result.Value.Description != "" {
		t.Errorf("Description = %q, want empty", result.Value.Description)
	}
}

func TestParseAndDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   Format
		data     string
		contains []string
	}{
		{
			name:     "wrong type",
			format:   FormatCUE,
			data:     `name: "x", count: "three", kind: type: "dc"`,
			contains: []string{"bad.cue", "count"},
		},
		{
			name:     "missing required field",
			format:   FormatYAML,
			data:     "name: x\nkind:\n  type: dc\n",
			contains: []string{"bad.cue", "count"},
		},
		{
			name:     "unknown variant",
			format:   FormatJSON,
			data:     `{"name": "x", "count": 1, "kind": {"type": "ability"}}`,
			contains: []string{"bad.cue", "kind"},
		},
		{
			name:     "closed definition rejects unknown field",
			format:   FormatCUE,
			data:     `name: "x", count: 1, kind: type: "dc", colour: "red"`,
			contains: []string{"colour"},
		},
		{
			name:     "toml syntax error",
			format:   FormatTOML,
			data:     "name = \n",
			contains: []string{"bad.cue:1:"},
		},
		{
			name:     "constraint violation",
			format:   FormatTOML,
			data:     "name = \"x\"\ncount = -1\n[kind]\ntype = \"dc\"\n",
			contains: []string{"count"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseAndDecode[testRecord]([]byte(testSchema), []byte(tt.data), "#Record",
				WithFormat(tt.format), WithFilename("bad.cue"))
			if err == nil {
				t.Fatal("expected error")
			}
			for _, want := range tt.contains {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error should contain %q, got: %v", want, err)
				}
			}
		})
	}
}

func TestParseAndDecode_FileSizeLimit(t *testing.T) {
	t.Parallel()

	data := []byte(`name: "x", count: 1, kind: type: "dc"`)

	if _, err := ParseAndDecode[testRecord]([]byte(testSchema), data, "#Record",
		WithMaxFileSize(int64(len(data)))); err != nil {
		t.Errorf("document at the limit should parse, got: %v", err)
	}

	_, err := ParseAndDecode[testRecord]([]byte(testSchema), data, "#Record",
		WithMaxFileSize(10), WithFilename("big.cue"))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("error = %v, want ErrFileTooLarge", err)
	}
}

func TestParseAndDecode_NonConcrete(t *testing.T) {
	t.Parallel()

	schema := `#Settings: {level: *"info" | "debug", workers: int | *1}`
	result, err := ParseAndDecodeString[struct {
		Level   string `json:"level"`
		Workers int    `json:"workers"`
	}](schema, []byte(""), "#Settings", WithConcrete(false))
	if err != nil {
		t.Fatalf("ParseAndDecodeString() error: %v", err)
	}
	if result.Value.Level != "info" || result.Value.Workers != 1 {
		t.Errorf("defaults = %+v", *result.Value)
	}
}

func TestParseAndDecode_InvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[testRecord]([]byte(testSchema), []byte("{}"), "#Record", WithFormat("xml"))
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("error = %v, want ErrInvalidFormat", err)
	}
}

func TestParseAndDecode_MissingDefinition(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[testRecord]([]byte(testSchema), []byte("{}"), "#Nope")
	if err == nil || !strings.Contains(err.Error(), "#Nope") {
		t.Errorf("error = %v, want missing definition error", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "spells/fireball.cue", want: FormatCUE},
		{path: "fireball.JSON", want: FormatJSON},
		{path: "a/b.yaml", want: FormatYAML},
		{path: "a/b.yml", want: FormatYAML},
		{path: "table.toml", want: FormatTOML},
		{path: "notes.txt", wantErr: true},
		{path: "Makefile", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := FormatFromPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil {
				var fmtErr *InvalidFormatError
				if !errors.As(err, &fmtErr) || !errors.Is(err, ErrInvalidFormat) {
					t.Errorf("error = %#v, want *InvalidFormatError", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
