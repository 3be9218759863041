// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates content documents against embedded CUE schemas.
//
// Every document goes through the same three steps regardless of its source
// format:
//
//  1. Compile the embedded schema
//  2. Turn the user document into a CUE value and unify it with the schema
//  3. Validate and decode to a Go struct
//
// Documents may be written as CUE, JSON, YAML or TOML; the format is picked
// from the file extension with FormatFromPath. Encode goes the other way and
// renders a Go value in any of the four formats.
//
// # Usage
//
//	//go:embed schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Spell](
//	    schemaBytes,
//	    data,
//	    "#Spell",
//	    cueutil.WithFilename("fireball.yaml"),
//	    cueutil.WithFormat(cueutil.FormatYAML),
//	)
//	if err != nil {
//	    return nil, err  // Error includes the field path
//	}
//	return result.Value, nil
package cueutil
