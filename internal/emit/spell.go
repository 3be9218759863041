// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"fmt"

	"fgmod-cli/internal/markdown"
	"fgmod-cli/internal/markup"
	"fgmod-cli/pkg/content"
)

// Spell writes the element for one spell. source is the owning module's name.
// The description is converted with md and written as formatted text.
func Spell(b *markup.Builder, s *content.Spell, source string, md markdown.Converter) error {
	if s.ID < 1 {
		return fmt.Errorf("spell %q: %w", s.Name, ErrMissingID)
	}
	castingTime, err := CastingTime(s.CastingTime)
	if err != nil {
		return fmt.Errorf("spell %q: %w", s.Name, err)
	}
	level, err := SpellLevel(s.SpellLevel)
	if err != nil {
		return fmt.Errorf("spell %q: %w", s.Name, err)
	}
	description := md.ToMarkup(s.Description)

	err = b.Element(ID(s.ID), nil, func(b *markup.Builder) error {
		return fields(
			func() error { return b.Text("castingtime", castingTime, typeString) },
			func() error { return b.Raw("description", description, typeFormattedText) },
			func() error {
				if s.Duration == "" {
					return nil
				}
				return b.Text("duration", s.Duration, typeString)
			},
			func() error { return b.Number("level", level, typeNumber) },
			func() error { return b.Number("locked", 1, typeNumber) },
			func() error { return b.Text("name", s.Name, typeString) },
			func() error { return b.Number("ritual", Flag(s.IsRitual), typeNumber) },
			func() error { return b.Text("school", s.School, typeString) },
			func() error { return b.Number("prepared", Flag(s.NeedsPreparation), typeNumber) },
			func() error {
				if s.ShortDescription == "" {
					return nil
				}
				return b.Text("shortdescription", s.ShortDescription, typeString)
			},
			func() error { return b.Text("group", s.Group, typeString) },
			func() error { return b.Text("source", source, typeString) },
			func() error { return Actions(b, &s.Actions) },
		)
	})
	if err != nil {
		return fmt.Errorf("spell %q: %w", s.Name, err)
	}
	return nil
}
