// SPDX-License-Identifier: MPL-2.0

package content

import "fgmod-cli/pkg/cueutil"

const exampleDescription = `
# Simple Description

- List item 1
- List item 2
`

// ExampleSpell returns a spell that uses every action kind and most variants.
// It is the document written by "fgmod create-spell".
func ExampleSpell(name string) Spell {
	return Spell{
		Name:             name,
		ShortDescription: "Something simple",
		Duration:         "1 minute",
		Description:      exampleDescription,
		CastingTime:      Instant(),
		School:           "Maaagic!",
		SpellLevel:       Cantrip(),
		Group:            "A group",
		Actions: Actions{
			Attacks: []Attack{
				{Range: RangeMelee, Save: DCDifficulty()},
				{Range: RangeRanged, Save: DCDifficulty()},
			},
			Saves: []Save{
				{Stat: AbilityStat(AbilityCharisma), Save: DCDifficulty()},
				{Stat: AbilityStat(AbilityCharisma), Save: AbilityDifficulty(AbilityCharisma, true, 1)},
			},
			Damages: []Damage{{
				Damage: []DamageGroup{{
					Modifier:   AbilityModifier(AbilityConstitution),
					DamageType: "slashing",
					Dice:       []Dice{{DiceType: "d4", Count: 1}},
				}},
			}},
			Effects: []Effect{
				{Effect: "DMG: 4d4", TargetsSelf: true, Duration: Finite(1, UnitMinute)},
				{Effect: "DMG: 4d4", Duration: Finite(1, UnitRound)},
				{Effect: "DMG: 4d4", TargetsSelf: true, Duration: Finite(1, UnitHour)},
				{Effect: "DMG: 4d4", Duration: Finite(1, UnitMinute)},
			},
		},
	}
}

// ExampleTable returns the two-row table written by "fgmod create-table".
func ExampleTable(name string) Table {
	return Table{
		Name:        name,
		Description: "A simple table",
		Ranges: []TableRange{
			{From: 1, Until: 10, Description: "low"},
			{From: 11, Until: 100, Description: "high"},
		},
	}
}

// Encode renders a module definition, spell or table as a document in format f.
// Decoding the result yields a value equal to v.
func Encode(v any, f cueutil.Format) ([]byte, error) {
	return cueutil.Encode(v, f)
}
