// SPDX-License-Identifier: MPL-2.0

package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrUnknownVariant is the sentinel error wrapped by UnknownVariantError.
	ErrUnknownVariant = errors.New("unknown variant")
	// ErrInvalidRecord is the sentinel error wrapped by InvalidRecordError.
	ErrInvalidRecord = errors.New("invalid record")

	errNoEntries = errors.New("needs at least one entry")

	diceTypePattern = regexp.MustCompile(`^d[0-9]+$`)
)

type (
	// UnknownVariantError is returned when a variant field carries a tag the
	// compiler has no rule for.
	UnknownVariantError struct {
		// Variant is the Go type name of the variant, e.g. "CastingTime".
		Variant string
		Tag     string
	}

	// InvalidRecordError is returned when a spell, table or module violates a
	// structural rule. Field is a dotted path inside the record.
	InvalidRecordError struct {
		Record string
		Field  string
		Reason string
	}
)

// Error implements the error interface.
func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("%s %s %q", ErrUnknownVariant, e.Variant, e.Tag)
}

// Unwrap returns ErrUnknownVariant for errors.Is() compatibility.
func (e *UnknownVariantError) Unwrap() error { return ErrUnknownVariant }

// Error implements the error interface.
func (e *InvalidRecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s %q: %s", ErrInvalidRecord, e.Record, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s: %s", ErrInvalidRecord, e.Record, e.Field, e.Reason)
}

// Unwrap returns ErrInvalidRecord for errors.Is() compatibility.
func (e *InvalidRecordError) Unwrap() error { return ErrInvalidRecord }

// IsValid reports whether a is one of the six ability scores.
func (a Ability) IsValid() (bool, []error) {
	switch a {
	case AbilityStrength, AbilityDexterity, AbilityConstitution,
		AbilityIntelligence, AbilityWisdom, AbilityCharisma:
		return true, nil
	default:
		return false, []error{&UnknownVariantError{Variant: "Ability", Tag: string(a)}}
	}
}

// Validate checks the casting time tag and its count.
func (c CastingTime) Validate() error {
	switch c.Type {
	case CastInstant, CastReaction, CastForever:
		return nil
	case CastBonusAction, CastAction:
		if c.Count < 1 {
			return fmt.Errorf("%s count must be at least 1, got %d", c.Type, c.Count)
		}
		return nil
	default:
		return &UnknownVariantError{Variant: "CastingTime", Tag: string(c.Type)}
	}
}

// Validate checks the spell level tag.
func (l SpellLevel) Validate() error {
	switch l.Type {
	case LevelCantrip:
		return nil
	case LevelNumber:
		if l.Number < 0 {
			return fmt.Errorf("level must not be negative, got %d", l.Number)
		}
		return nil
	default:
		return &UnknownVariantError{Variant: "SpellLevel", Tag: string(l.Type)}
	}
}

// Validate checks the stat tag and ability.
func (s Stat) Validate() error {
	if s.Type != StatAbilityScore {
		return &UnknownVariantError{Variant: "Stat", Tag: string(s.Type)}
	}
	if ok, errs := s.Ability.IsValid(); !ok {
		return errs[0]
	}
	return nil
}

// Validate checks the difficulty tag and, for Ability, its stat.
func (d Difficulty) Validate() error {
	switch d.Type {
	case DifficultyFixed, DifficultyDC:
		return nil
	case DifficultyAbility:
		if d.Stat == nil {
			return errors.New("ability difficulty has no stat")
		}
		return d.Stat.Validate()
	default:
		return &UnknownVariantError{Variant: "Difficulty", Tag: string(d.Type)}
	}
}

// Validate checks the modifier tag and, for AbilityScore, its ability.
func (m DamageModifier) Validate() error {
	switch m.Type {
	case ModifierNone:
		return nil
	case ModifierAbilityScore:
		if ok, errs := m.Ability.IsValid(); !ok {
			return errs[0]
		}
		return nil
	default:
		return &UnknownVariantError{Variant: "DamageModifier", Tag: string(m.Type)}
	}
}

// Validate checks the duration tag and, for Finite, its unit.
func (d EffectDuration) Validate() error {
	switch d.Type {
	case DurationIndefinite:
		return nil
	case DurationFinite:
		switch d.Unit {
		case UnitRound, UnitMinute, UnitHour:
		default:
			return &UnknownVariantError{Variant: "TimeUnit", Tag: string(d.Unit)}
		}
		if d.Count < 0 {
			return fmt.Errorf("duration count must not be negative, got %d", d.Count)
		}
		return nil
	default:
		return &UnknownVariantError{Variant: "EffectDuration", Tag: string(d.Type)}
	}
}

// Validate checks the dice notation and count.
func (d Dice) Validate() error {
	if !diceTypePattern.MatchString(d.DiceType) {
		return fmt.Errorf("dice type %q is not of the form d<faces>", d.DiceType)
	}
	if d.Count < 1 {
		return fmt.Errorf("dice count must be at least 1, got %d", d.Count)
	}
	return nil
}

// Validate checks every action of the spell. Errors name the failing action
// as "<list>[<index>]".
func (a Actions) Validate() error {
	for i, atk := range a.Attacks {
		if atk.Range != RangeMelee && atk.Range != RangeRanged {
			return fieldError(fmt.Sprintf("attacks[%d].range", i), &UnknownVariantError{Variant: "AttackRange", Tag: string(atk.Range)})
		}
		if err := atk.Save.Validate(); err != nil {
			return fieldError(fmt.Sprintf("attacks[%d].save", i), err)
		}
	}
	for i, s := range a.Saves {
		if err := s.Stat.Validate(); err != nil {
			return fieldError(fmt.Sprintf("saves[%d].stat", i), err)
		}
		if err := s.Save.Validate(); err != nil {
			return fieldError(fmt.Sprintf("saves[%d].save", i), err)
		}
	}
	for i, d := range a.Damages {
		if len(d.Damage) == 0 {
			return fieldError(fmt.Sprintf("damages[%d].damage", i), errNoEntries)
		}
		for j, g := range d.Damage {
			if len(g.Dice) == 0 {
				return fieldError(fmt.Sprintf("damages[%d].damage[%d].dice", i, j), errNoEntries)
			}
			if err := g.Modifier.Validate(); err != nil {
				return fieldError(fmt.Sprintf("damages[%d].damage[%d].modifier", i, j), err)
			}
			for k, dice := range g.Dice {
				if err := dice.Validate(); err != nil {
					return fieldError(fmt.Sprintf("damages[%d].damage[%d].dice[%d]", i, j, k), err)
				}
			}
		}
	}
	for i, e := range a.Effects {
		if err := e.Duration.Validate(); err != nil {
			return fieldError(fmt.Sprintf("effects[%d].duration", i), err)
		}
	}
	return nil
}

// Validate checks the spell against the model's structural rules.
func (s *Spell) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &InvalidRecordError{Record: s.Name, Field: "name", Reason: "must not be empty"}
	}
	checks := []struct {
		field string
		err   error
	}{
		{"casting-time", s.CastingTime.Validate()},
		{"spell-level", s.SpellLevel.Validate()},
	}
	for _, c := range checks {
		if c.err != nil {
			return &InvalidRecordError{Record: s.Name, Field: c.field, Reason: c.err.Error()}
		}
	}
	if err := s.Actions.Validate(); err != nil {
		var fe *actionFieldError
		if errors.As(err, &fe) {
			return &InvalidRecordError{Record: s.Name, Field: "actions." + fe.field, Reason: fe.cause.Error()}
		}
		return &InvalidRecordError{Record: s.Name, Field: "actions", Reason: err.Error()}
	}
	return nil
}

// Validate checks the table against the model's structural rules.
func (t *Table) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return &InvalidRecordError{Record: t.Name, Field: "name", Reason: "must not be empty"}
	}
	for i, r := range t.Ranges {
		if r.From < 0 || r.Until < 0 {
			return &InvalidRecordError{Record: t.Name, Field: fmt.Sprintf("ranges[%d]", i), Reason: "bounds must not be negative"}
		}
		if r.From > r.Until {
			return &InvalidRecordError{
				Record: t.Name,
				Field:  fmt.Sprintf("ranges[%d]", i),
				Reason: fmt.Sprintf("from %d is greater than until %d", r.From, r.Until),
			}
		}
	}
	return nil
}

// Validate checks the module metadata.
func (d *ModuleDefinition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &InvalidRecordError{Record: d.Name, Field: "name", Reason: "must not be empty"}
	}
	if d.Category != CategorySourceBook {
		return &InvalidRecordError{Record: d.Name, Field: "category", Reason: (&UnknownVariantError{Variant: "Category", Tag: string(d.Category)}).Error()}
	}
	if d.Ruleset != RulesetFifthEdition && d.Ruleset != RulesetFifthEditionShort {
		return &InvalidRecordError{Record: d.Name, Field: "ruleset", Reason: (&UnknownVariantError{Variant: "Ruleset", Tag: string(d.Ruleset)}).Error()}
	}
	return nil
}

// Validate checks the definition and every record.
func (m *Module) Validate() error {
	if err := m.Definition.Validate(); err != nil {
		return err
	}
	for i := range m.Spells {
		if err := m.Spells[i].Validate(); err != nil {
			return err
		}
	}
	for i := range m.Tables {
		if err := m.Tables[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

type actionFieldError struct {
	field string
	cause error
}

func (e *actionFieldError) Error() string { return e.field + ": " + e.cause.Error() }

func (e *actionFieldError) Unwrap() error { return e.cause }

func fieldError(field string, err error) error {
	return &actionFieldError{field: field, cause: err}
}

// MarshalJSON writes only the fields of the tagged variant.
func (c CastingTime) MarshalJSON() ([]byte, error) {
	switch c.Type {
	case CastInstant, CastReaction, CastForever:
		return json.Marshal(struct {
			Type CastingTimeKind `json:"type"`
		}{c.Type})
	case CastBonusAction, CastAction:
		return json.Marshal(struct {
			Type  CastingTimeKind `json:"type"`
			Count int             `json:"count"`
		}{c.Type, c.Count})
	default:
		return nil, &UnknownVariantError{Variant: "CastingTime", Tag: string(c.Type)}
	}
}

// MarshalJSON writes only the fields of the tagged variant.
func (l SpellLevel) MarshalJSON() ([]byte, error) {
	switch l.Type {
	case LevelCantrip:
		return json.Marshal(struct {
			Type SpellLevelKind `json:"type"`
		}{l.Type})
	case LevelNumber:
		return json.Marshal(struct {
			Type   SpellLevelKind `json:"type"`
			Number int            `json:"number"`
		}{l.Type, l.Number})
	default:
		return nil, &UnknownVariantError{Variant: "SpellLevel", Tag: string(l.Type)}
	}
}

// MarshalJSON writes only the fields of the tagged variant.
func (d Difficulty) MarshalJSON() ([]byte, error) {
	switch d.Type {
	case DifficultyFixed:
		return json.Marshal(struct {
			Type  DifficultyKind `json:"type"`
			Value int            `json:"value"`
		}{d.Type, d.Value})
	case DifficultyDC:
		return json.Marshal(struct {
			Type DifficultyKind `json:"type"`
		}{d.Type})
	case DifficultyAbility:
		if d.Stat == nil {
			return nil, errors.New("ability difficulty has no stat")
		}
		return json.Marshal(struct {
			Type         DifficultyKind `json:"type"`
			Stat         Stat           `json:"stat"`
			IsProficient bool           `json:"is-proficient"`
			Bonus        int            `json:"bonus"`
		}{d.Type, *d.Stat, d.IsProficient, d.Bonus})
	default:
		return nil, &UnknownVariantError{Variant: "Difficulty", Tag: string(d.Type)}
	}
}

// MarshalJSON writes only the fields of the tagged variant.
func (m DamageModifier) MarshalJSON() ([]byte, error) {
	switch m.Type {
	case ModifierNone:
		return json.Marshal(struct {
			Type DamageModifierKind `json:"damage-mod"`
		}{m.Type})
	case ModifierAbilityScore:
		return json.Marshal(struct {
			Type    DamageModifierKind `json:"damage-mod"`
			Ability Ability            `json:"ability"`
		}{m.Type, m.Ability})
	default:
		return nil, &UnknownVariantError{Variant: "DamageModifier", Tag: string(m.Type)}
	}
}

// MarshalJSON writes only the fields of the tagged variant.
func (d EffectDuration) MarshalJSON() ([]byte, error) {
	switch d.Type {
	case DurationIndefinite:
		return json.Marshal(struct {
			Type EffectDurationKind `json:"type"`
		}{d.Type})
	case DurationFinite:
		return json.Marshal(struct {
			Type  EffectDurationKind `json:"type"`
			Count int                `json:"count"`
			Unit  TimeUnit           `json:"unit"`
		}{d.Type, d.Count, d.Unit})
	default:
		return nil, &UnknownVariantError{Variant: "EffectDuration", Tag: string(d.Type)}
	}
}
