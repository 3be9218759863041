// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"strconv"
	"strings"

	"fgmod-cli/internal/markup"
	"fgmod-cli/pkg/content"
)

// Actions writes the "actions" element. Every action gets the next value of
// one counter shared by all four lists, taken in the order attacks, saves,
// damages, effects; the value is both the element name and its "order" field.
func Actions(b *markup.Builder, a *content.Actions) error {
	return b.Element("actions", nil, func(b *markup.Builder) error {
		order := 0
		next := func(body func(*markup.Builder) error) error {
			order++
			return b.Element(ID(order), nil, func(b *markup.Builder) error {
				if err := b.Number("order", order, typeNumber); err != nil {
					return err
				}
				return body(b)
			})
		}

		for i := range a.Attacks {
			if err := next(func(b *markup.Builder) error { return attack(b, &a.Attacks[i]) }); err != nil {
				return err
			}
		}
		for i := range a.Saves {
			if err := next(func(b *markup.Builder) error { return save(b, &a.Saves[i]) }); err != nil {
				return err
			}
		}
		for i := range a.Damages {
			if err := next(func(b *markup.Builder) error { return damage(b, &a.Damages[i]) }); err != nil {
				return err
			}
		}
		for i := range a.Effects {
			if err := next(func(b *markup.Builder) error { return effect(b, &a.Effects[i]) }); err != nil {
				return err
			}
		}
		return nil
	})
}

func attack(b *markup.Builder, atk *content.Attack) error {
	switch atk.Range {
	case content.RangeMelee, content.RangeRanged:
	default:
		return &content.UnknownVariantError{Variant: "AttackRange", Tag: string(atk.Range)}
	}
	return fields(
		func() error { return b.Text("atktype", string(atk.Range), typeString) },
		func() error { return b.Text("type", "cast", typeString) },
		func() error { return tokenPlaceholders(b) },
	)
}

// save writes the difficulty fields for the save's variant followed by the
// fields every save carries. A fixed difficulty has no client representation
// and contributes only the shared fields.
func save(b *markup.Builder, s *content.Save) error {
	saveType, err := StatName(s.Stat)
	if err != nil {
		return err
	}

	switch s.Save.Type {
	case content.DifficultyDC:
		err = fields(
			func() error { return b.Number("savedcmod", 0, typeNumber) },
			func() error { return b.Number("savedcprof", 1, typeNumber) },
		)
	case content.DifficultyFixed:
	case content.DifficultyAbility:
		if s.Save.Stat == nil {
			return &content.InvalidRecordError{Field: "save.stat", Reason: "ability difficulty has no stat"}
		}
		var stat string
		if stat, err = StatName(*s.Save.Stat); err != nil {
			return err
		}
		err = fields(
			func() error { return b.Text("savedcbase", "ability", typeString) },
			func() error { return b.Number("savedcmod", s.Save.Bonus, typeNumber) },
			func() error { return b.Number("savedcprof", Flag(s.Save.IsProficient), typeNumber) },
			func() error { return b.Text("savedcstat", stat, typeString) },
		)
	default:
		return &content.UnknownVariantError{Variant: "Difficulty", Tag: string(s.Save.Type)}
	}
	if err != nil {
		return err
	}

	return fields(
		func() error { return b.Number("savemagic", Flag(s.IsMagic), typeNumber) },
		func() error { return b.Text("savetype", saveType, typeString) },
		func() error { return tokenPlaceholders(b) },
		func() error { return b.Text("type", "cast", typeString) },
	)
}

func damage(b *markup.Builder, d *content.Damage) error {
	if err := b.Text("type", "damage", typeString); err != nil {
		return err
	}
	return b.Element("damagelist", nil, func(b *markup.Builder) error {
		for i := range d.Damage {
			g := &d.Damage[i]
			stat, hasStat, err := modifierName(g.Modifier)
			if err != nil {
				return err
			}
			err = b.Element(ID(i+1), nil, func(b *markup.Builder) error {
				return fields(
					func() error { return b.Text("type", g.DamageType, typeString) },
					func() error { return b.Text("dice", DiceString(g.Dice), typeDice) },
					func() error {
						if !hasStat {
							return nil
						}
						return b.Text("stat", stat, typeString)
					},
				)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func effect(b *markup.Builder, e *content.Effect) error {
	var unit string
	switch e.Duration.Type {
	case content.DurationIndefinite:
	case content.DurationFinite:
		switch e.Duration.Unit {
		case content.UnitRound, content.UnitMinute, content.UnitHour:
			unit = string(e.Duration.Unit)
		default:
			return &content.UnknownVariantError{Variant: "TimeUnit", Tag: string(e.Duration.Unit)}
		}
	default:
		return &content.UnknownVariantError{Variant: "EffectDuration", Tag: string(e.Duration.Type)}
	}

	return fields(
		func() error {
			if !e.TargetsSelf {
				return nil
			}
			return b.Text("targeting", "self", typeString)
		},
		func() error { return b.Text("type", "effect", typeString) },
		func() error { return b.Text("label", e.Effect, typeString) },
		func() error {
			if unit == "" {
				return nil
			}
			if err := b.Text("durunit", unit, typeString); err != nil {
				return err
			}
			return b.Number("durmod", e.Duration.Count, typeNumber)
		},
	)
}

// DiceString joins dice as "{count}{type}", e.g. "2d6,1d4".
func DiceString(dice []content.Dice) string {
	parts := make([]string, len(dice))
	for i, d := range dice {
		parts[i] = strconv.Itoa(d.Count) + d.DiceType
	}
	return strings.Join(parts, ",")
}

func modifierName(m content.DamageModifier) (string, bool, error) {
	switch m.Type {
	case content.ModifierNone:
		return "", false, nil
	case content.ModifierAbilityScore:
		name, err := AbilityName(m.Ability)
		return name, err == nil, err
	default:
		return "", false, &content.UnknownVariantError{Variant: "DamageModifier", Tag: string(m.Type)}
	}
}

func tokenPlaceholders(b *markup.Builder) error {
	if err := b.Text("tknbutton", "", typeTokenButton); err != nil {
		return err
	}
	return b.Text("tknimg", "", typeTokenButton)
}
