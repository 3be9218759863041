// SPDX-License-Identifier: MPL-2.0

// Package markup builds indented, well-formed element trees.
//
// A Builder is driven by nested calls: Element opens a scope, runs a body that
// writes the children, and always closes the scope again. Leaf helpers write
// text, numbers, self-closing elements and pre-rendered blocks. Finish seals
// the builder and returns the document.
//
//	b := markup.New(markup.WithDeclaration())
//	err := b.Element("root", nil, func(b *markup.Builder) error {
//		return b.Text("name", "Test Book", markup.Type("string"))
//	})
//	doc, err := b.Finish()
//
// The package knows nothing about the target schema; conventions such as the
// 0/1 boolean encoding belong to the emitters.
package markup
