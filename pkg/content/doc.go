// SPDX-License-Identifier: MPL-2.0

// Package content defines the content model of a module (its metadata,
// spells and tables) and loads it from human-authored documents.
//
// Documents may be CUE, JSON, YAML or TOML. Each is validated against the
// embedded schema.cue before it is decoded, so a loaded Module always
// satisfies the model's structural invariants. Variant fields (casting time,
// spell level, save difficulty, damage modifier, effect duration) are a kind
// tag plus payload fields; Validate rejects unknown tags with an
// *UnknownVariantError.
//
// Record identifiers are not part of a document. They are assigned by a
// separate pass after loading.
package content
