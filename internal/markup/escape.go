// SPDX-License-Identifier: MPL-2.0

package markup

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// escape writes s with markup characters, quotes and line breaks replaced by
// references, so the result is safe both as character data and inside a
// double-quoted attribute. Characters outside the XML 1.0 range become U+FFFD.
func escape(buf *bytes.Buffer, s string) {
	// EscapeText never fails when writing to a bytes.Buffer.
	_ = xml.EscapeText(buf, []byte(s))
}

// isName reports whether s is an XML name. Colons are rejected: the schema has
// no namespaces and a stray prefix would make the document unreadable.
func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == utf8.RuneError {
			return false
		}
		if i == 0 {
			if r != '_' && !unicode.IsLetter(r) {
				return false
			}
			continue
		}
		if r != '_' && r != '-' && r != '.' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// checkFragment verifies that block is a sequence of balanced, well-formed
// elements and character data.
func checkFragment(block string) error {
	if strings.TrimSpace(block) == "" {
		return nil
	}

	d := xml.NewDecoder(strings.NewReader("<fragment>" + block + "</fragment>"))
	d.Strict = true
	d.Entity = nil
	for {
		if _, err := d.Token(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
