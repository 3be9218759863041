// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"bytes"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	cueyaml "cuelang.org/go/encoding/yaml"
	"github.com/pelletier/go-toml/v2"
)

// Encode renders value in format f. The value goes through its JSON encoding
// first, so struct tags and omitempty behave the same in every format and the
// output parses back to an equal value with ParseAndDecode.
func Encode(value any, f Format) ([]byte, error) {
	if ok, errs := f.IsValid(); !ok {
		return nil, errs[0]
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", f, err)
	}

	if f == FormatJSON {
		var out bytes.Buffer
		if err := json.Indent(&out, raw, "", "  "); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		out.WriteByte('\n')
		return out.Bytes(), nil
	}

	v := cuecontext.New().CompileBytes(raw)
	if v.Err() != nil {
		return nil, fmt.Errorf("encode %s: %w", f, v.Err())
	}

	switch f {
	case FormatCUE:
		out, err := format.Node(v.Syntax(cue.Final(), cue.Concrete(true)))
		if err != nil {
			return nil, fmt.Errorf("encode cue: %w", err)
		}
		return out, nil
	case FormatYAML:
		out, err := cueyaml.Encode(v)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return out, nil
	case FormatTOML:
		var doc map[string]any
		if err := v.Decode(&doc); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		out, err := toml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return out, nil
	default:
		return nil, &InvalidFormatError{Value: string(f)}
	}
}
