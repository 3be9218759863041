// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"fmt"

	"fgmod-cli/internal/markdown"
	"fgmod-cli/internal/markup"
	"fgmod-cli/pkg/content"
)

// Table writes the element for one table. Rows are numbered from 1 within the
// table. A table without ranges still gets an empty "tablerows" element.
func Table(b *markup.Builder, t *content.Table, md markdown.Converter) error {
	if t.ID < 1 {
		return fmt.Errorf("table %q: %w", t.Name, ErrMissingID)
	}
	notes := md.ToMarkup(t.FormattedText)

	err := b.Element(ID(t.ID), nil, func(b *markup.Builder) error {
		return fields(
			func() error { return b.Text("description", t.Description, typeString) },
			func() error { return b.Text("dice", "", typeDice) },
			func() error { return b.Number("enabled", 0, typeNumber) },
			func() error { return b.Text("hiddenenabled", "Disabled", typeString) },
			func() error { return b.Number("hiderollresults", 0, typeNumber) },
			func() error { return b.Text("labelcol1", "Effect", typeString) },
			func() error { return b.Number("locked", 1, typeNumber) },
			func() error { return b.Number("mode", 0, typeNumber) },
			func() error { return b.Text("name", t.Name, typeString) },
			func() error { return b.Raw("notes", notes, typeFormattedText) },
			func() error { return b.Number("resultscols", 1, typeNumber) },
			func() error { return b.Number("table_positionoffset", 0, typeNumber) },
			func() error { return tableRows(b, t.Ranges) },
		)
	})
	if err != nil {
		return fmt.Errorf("table %q: %w", t.Name, err)
	}
	return nil
}

func tableRows(b *markup.Builder, ranges []content.TableRange) error {
	return b.Element("tablerows", nil, func(b *markup.Builder) error {
		for i := range ranges {
			r := &ranges[i]
			err := b.Element(ID(i+1), nil, func(b *markup.Builder) error {
				return fields(
					func() error { return b.Number("fromrange", r.From, typeNumber) },
					func() error { return b.Number("torange", r.Until, typeNumber) },
					func() error { return result(b, r.Description) },
				)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// result writes the single result column of a row with an empty link.
func result(b *markup.Builder, text string) error {
	return b.Element("results", nil, func(b *markup.Builder) error {
		return b.Element(ID(1), nil, func(b *markup.Builder) error {
			if err := b.Text("result", text, typeString); err != nil {
				return err
			}
			return b.Element("resultlink", []markup.Attr{typeWindowRef}, func(b *markup.Builder) error {
				if err := b.Empty("class"); err != nil {
					return err
				}
				return b.Empty("recordname")
			})
		})
	})
}
