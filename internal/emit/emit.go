// SPDX-License-Identifier: MPL-2.0

// Package emit maps spell and table records onto the element vocabulary of the
// client document. Each emitter writes one record element into a markup
// builder; the caller owns the surrounding section.
package emit

import (
	"errors"
	"fmt"

	"fgmod-cli/internal/markup"
	"fgmod-cli/pkg/content"
)

// ErrMissingID is returned when a record reaches an emitter before the id pass.
var ErrMissingID = errors.New("record has no identifier")

var (
	typeString        = markup.Type("string")
	typeNumber        = markup.Type("number")
	typeFormattedText = markup.Type("formattedtext")
	typeDice          = markup.Type("dice")
	typeTokenButton   = markup.Type("tknbutton")
	typeWindowRef     = markup.Type("windowreference")
)

// ID returns the element name for identifier n, e.g. "id-00001".
func ID(n int) string {
	return fmt.Sprintf("id-%05d", n)
}

// Flag renders a boolean as the number the client expects.
func Flag(v bool) int {
	if v {
		return 1
	}
	return 0
}

// AbilityName returns the long name of an ability score, e.g. "cha" ->
// "charisma".
func AbilityName(a content.Ability) (string, error) {
	switch a {
	case content.AbilityStrength:
		return "strength", nil
	case content.AbilityDexterity:
		return "dexterity", nil
	case content.AbilityConstitution:
		return "constitution", nil
	case content.AbilityIntelligence:
		return "intelligence", nil
	case content.AbilityWisdom:
		return "wisdom", nil
	case content.AbilityCharisma:
		return "charisma", nil
	default:
		return "", &content.UnknownVariantError{Variant: "Ability", Tag: string(a)}
	}
}

// StatName returns the long ability name a stat refers to.
func StatName(s content.Stat) (string, error) {
	if s.Type != content.StatAbilityScore {
		return "", &content.UnknownVariantError{Variant: "Stat", Tag: string(s.Type)}
	}
	return AbilityName(s.Ability)
}

// CastingTime renders a casting time as display text.
func CastingTime(c content.CastingTime) (string, error) {
	switch c.Type {
	case content.CastReaction:
		return "1 reaction", nil
	case content.CastBonusAction:
		return fmt.Sprintf("%d bonus action", c.Count), nil
	case content.CastAction:
		return fmt.Sprintf("%d action", c.Count), nil
	case content.CastInstant:
		return "instant", nil
	case content.CastForever:
		return "forever", nil
	default:
		return "", &content.UnknownVariantError{Variant: "CastingTime", Tag: string(c.Type)}
	}
}

// SpellLevel returns the numeric level; cantrips are level 0.
func SpellLevel(l content.SpellLevel) (int, error) {
	switch l.Type {
	case content.LevelCantrip:
		return 0, nil
	case content.LevelNumber:
		return l.Number, nil
	default:
		return 0, &content.UnknownVariantError{Variant: "SpellLevel", Tag: string(l.Type)}
	}
}

// fields writes a sequence of leaf elements, stopping at the first error.
func fields(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
