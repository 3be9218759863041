// SPDX-License-Identifier: MPL-2.0

// Package markdown converts description text into the markup fragments that
// are embedded as formatted text in the client document.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

type (
	// Converter turns free text into a markup fragment.
	Converter interface {
		ToMarkup(text string) string
	}

	// Options toggles markdown extensions.
	Options struct {
		Tables        bool
		Strikethrough bool
		HardWraps     bool
	}

	// Goldmark renders CommonMark as XHTML so that the result is always a
	// well-formed fragment. Raw HTML in the input is dropped. It is safe
	// for concurrent use.
	Goldmark struct {
		md goldmark.Markdown
	}
)

// New returns a Goldmark converter configured by opts.
func New(opts Options) *Goldmark {
	var exts []goldmark.Extender
	if opts.Tables {
		exts = append(exts, extension.Table)
	}
	if opts.Strikethrough {
		exts = append(exts, extension.Strikethrough)
	}

	rendererOpts := []goldmark.Option{}
	htmlOpts := []renderer.Option{html.WithXHTML()}
	if opts.HardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}
	rendererOpts = append(rendererOpts,
		goldmark.WithExtensions(exts...),
		goldmark.WithRendererOptions(htmlOpts...),
	)

	return &Goldmark{md: goldmark.New(rendererOpts...)}
}

// Default returns a converter with tables and strikethrough enabled.
func Default() *Goldmark {
	return New(Options{Tables: true, Strikethrough: true})
}

// ToMarkup converts text to markup with surrounding whitespace trimmed.
// Empty input yields an empty string. Characters outside the XML 1.0 range
// become U+FFFD, so the result is always a well-formed fragment.
func (g *Goldmark) ToMarkup(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	var buf bytes.Buffer
	// Conversion into a bytes.Buffer only fails on writer errors.
	if err := g.md.Convert([]byte(strings.Map(xmlChar, text)), &buf); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

// xmlChar maps runes outside the XML 1.0 Char production to U+FFFD.
func xmlChar(r rune) rune {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return r
	case r >= 0x20 && r <= 0xD7FF,
		r >= 0xE000 && r <= 0xFFFD,
		r >= 0x10000 && r <= 0x10FFFF:
		return r
	default:
		return '\uFFFD'
	}
}
