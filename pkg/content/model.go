// SPDX-License-Identifier: MPL-2.0

package content

const (
	// CategorySourceBook is the only module category.
	CategorySourceBook Category = "Source Book"

	// RulesetFifthEdition is the canonical ruleset tag.
	RulesetFifthEdition Ruleset = "fifth-edition"
	// RulesetFifthEditionShort is the accepted short spelling of RulesetFifthEdition.
	RulesetFifthEditionShort Ruleset = "5e"

	// AbilityStrength is the "str" ability score.
	AbilityStrength Ability = "str"
	// AbilityDexterity is the "dex" ability score.
	AbilityDexterity Ability = "dex"
	// AbilityConstitution is the "con" ability score.
	AbilityConstitution Ability = "con"
	// AbilityIntelligence is the "int" ability score.
	AbilityIntelligence Ability = "int"
	// AbilityWisdom is the "wis" ability score.
	AbilityWisdom Ability = "wis"
	// AbilityCharisma is the "cha" ability score.
	AbilityCharisma Ability = "cha"

	CastInstant     CastingTimeKind = "instant"
	CastReaction    CastingTimeKind = "reaction"
	CastBonusAction CastingTimeKind = "bonusaction"
	CastAction      CastingTimeKind = "action"
	CastForever     CastingTimeKind = "forever"

	LevelCantrip SpellLevelKind = "Cantrip"
	LevelNumber  SpellLevelKind = "Level"

	StatAbilityScore StatKind = "ability-score"

	DifficultyFixed   DifficultyKind = "fixed"
	DifficultyDC      DifficultyKind = "dc"
	DifficultyAbility DifficultyKind = "ability"

	RangeMelee  AttackRange = "melee"
	RangeRanged AttackRange = "ranged"

	ModifierNone         DamageModifierKind = "none"
	ModifierAbilityScore DamageModifierKind = "ability-score"

	DurationFinite     EffectDurationKind = "finite"
	DurationIndefinite EffectDurationKind = "indefinite"

	UnitRound  TimeUnit = "round"
	UnitMinute TimeUnit = "minute"
	UnitHour   TimeUnit = "hour"
)

type (
	// Category is the library category of a module.
	Category string

	// Ruleset names the game system a module targets.
	Ruleset string

	// Ability is a short ability-score name.
	Ability string

	// CastingTimeKind tags a CastingTime variant.
	CastingTimeKind string

	// SpellLevelKind tags a SpellLevel variant.
	SpellLevelKind string

	// StatKind tags a Stat variant.
	StatKind string

	// DifficultyKind tags a Difficulty variant.
	DifficultyKind string

	// AttackRange is melee or ranged.
	AttackRange string

	// DamageModifierKind tags a DamageModifier variant.
	DamageModifierKind string

	// EffectDurationKind tags an EffectDuration variant.
	EffectDurationKind string

	// TimeUnit is the unit of a finite effect duration.
	TimeUnit string

	// ModuleDefinition is the module document: metadata plus the content
	// files, relative to the document's directory.
	ModuleDefinition struct {
		Name       string   `json:"name"`
		Author     string   `json:"author"`
		Source     string   `json:"source"`
		Category   Category `json:"category"`
		Ruleset    Ruleset  `json:"ruleset"`
		SpellFiles []string `json:"spell-files,omitempty"`
		TableFiles []string `json:"table-files,omitempty"`
	}

	// Module is the content of one compilation run, in declaration order.
	Module struct {
		Definition ModuleDefinition
		Spells     []Spell
		Tables     []Table
		// Dir is the directory of the module document.
		Dir string
	}

	// CastingTime is one of Instant, Reaction, BonusAction{Count},
	// Action{Count} or Forever.
	CastingTime struct {
		Type  CastingTimeKind `json:"type"`
		Count int             `json:"count,omitempty"`
	}

	// SpellLevel is Cantrip or Level{Number}.
	SpellLevel struct {
		Type   SpellLevelKind `json:"type"`
		Number int            `json:"number,omitempty"`
	}

	// Stat names the ability score a save or difficulty is based on.
	Stat struct {
		Type    StatKind `json:"type"`
		Ability Ability  `json:"ability"`
	}

	// Difficulty is Fixed{Value}, DC, or Ability{Stat, IsProficient, Bonus}.
	Difficulty struct {
		Type         DifficultyKind `json:"type"`
		Value        int            `json:"value,omitempty"`
		Stat         *Stat          `json:"stat,omitempty"`
		IsProficient bool           `json:"is-proficient,omitempty"`
		Bonus        int            `json:"bonus,omitempty"`
	}

	// DamageModifier is None or AbilityScore{Ability}.
	DamageModifier struct {
		Type    DamageModifierKind `json:"damage-mod"`
		Ability Ability            `json:"ability,omitempty"`
	}

	// EffectDuration is Finite{Count, Unit} or Indefinite.
	EffectDuration struct {
		Type  EffectDurationKind `json:"type"`
		Count int                `json:"count,omitempty"`
		Unit  TimeUnit           `json:"unit,omitempty"`
	}

	// Attack is an attack roll action.
	Attack struct {
		Range AttackRange `json:"range"`
		Save  Difficulty  `json:"save"`
	}

	// Save is a saving throw action.
	Save struct {
		IsMagic bool       `json:"is-magic"`
		Stat    Stat       `json:"stat"`
		Save    Difficulty `json:"save"`
	}

	// Dice is Count dice of DiceType faces, e.g. 2 "d6".
	Dice struct {
		DiceType string `json:"dice-type"`
		Count    int    `json:"count"`
	}

	// DamageGroup is one damage entry of a damage action.
	DamageGroup struct {
		Modifier   DamageModifier `json:"modifier"`
		DamageType string         `json:"damage-type"`
		Dice       []Dice         `json:"dice"`
	}

	// Damage is a damage action with one or more groups.
	Damage struct {
		Damage []DamageGroup `json:"damage"`
	}

	// Effect is an effect action.
	Effect struct {
		Effect      string         `json:"effect"`
		TargetsSelf bool           `json:"targets-self"`
		Duration    EffectDuration `json:"duration"`
	}

	// Actions holds the four independently ordered action lists.
	Actions struct {
		Attacks []Attack `json:"attacks,omitempty"`
		Saves   []Save   `json:"saves,omitempty"`
		Damages []Damage `json:"damages,omitempty"`
		Effects []Effect `json:"effects,omitempty"`
	}

	// Spell is a spell document.
	Spell struct {
		// ID is assigned by the id pass; zero until then.
		ID               int         `json:"-"`
		Name             string      `json:"name"`
		ShortDescription string      `json:"short-description,omitempty"`
		Description      string      `json:"description"`
		Duration         string      `json:"duration,omitempty"`
		CastingTime      CastingTime `json:"casting-time"`
		School           string      `json:"school"`
		SpellLevel       SpellLevel  `json:"spell-level"`
		NeedsPreparation bool        `json:"needs-preparation"`
		IsRitual         bool        `json:"is-ritual"`
		Group            string      `json:"group"`
		Actions          Actions     `json:"actions"`
	}

	// TableRange is one row of a table.
	TableRange struct {
		From        int    `json:"from"`
		Until       int    `json:"until"`
		Description string `json:"description"`
	}

	// Table is a random table document.
	Table struct {
		// ID is assigned by the id pass; zero until then.
		ID            int          `json:"-"`
		Name          string       `json:"name"`
		Description   string       `json:"description"`
		FormattedText string       `json:"formatted-text,omitempty"`
		Ranges        []TableRange `json:"ranges,omitempty"`
	}
)

// Count returns the total number of actions across all four lists.
func (a Actions) Count() int {
	return len(a.Attacks) + len(a.Saves) + len(a.Damages) + len(a.Effects)
}

// Instant returns the Instant casting time.
func Instant() CastingTime { return CastingTime{Type: CastInstant} }

// Reaction returns the Reaction casting time.
func Reaction() CastingTime { return CastingTime{Type: CastReaction} }

// BonusAction returns a casting time of count bonus actions.
func BonusAction(count int) CastingTime { return CastingTime{Type: CastBonusAction, Count: count} }

// Action returns a casting time of count actions.
func Action(count int) CastingTime { return CastingTime{Type: CastAction, Count: count} }

// Forever returns the Forever casting time.
func Forever() CastingTime { return CastingTime{Type: CastForever} }

// Cantrip returns the cantrip spell level.
func Cantrip() SpellLevel { return SpellLevel{Type: LevelCantrip} }

// Level returns spell level n.
func Level(n int) SpellLevel { return SpellLevel{Type: LevelNumber, Number: n} }

// AbilityStat returns the ability-score stat for a.
func AbilityStat(a Ability) Stat { return Stat{Type: StatAbilityScore, Ability: a} }

// FixedDifficulty returns a fixed save difficulty.
func FixedDifficulty(value int) Difficulty { return Difficulty{Type: DifficultyFixed, Value: value} }

// DCDifficulty returns the spell-save-DC difficulty.
func DCDifficulty() Difficulty { return Difficulty{Type: DifficultyDC} }

// AbilityDifficulty returns a difficulty derived from an ability score.
func AbilityDifficulty(a Ability, proficient bool, bonus int) Difficulty {
	stat := AbilityStat(a)
	return Difficulty{Type: DifficultyAbility, Stat: &stat, IsProficient: proficient, Bonus: bonus}
}

// NoModifier returns the None damage modifier.
func NoModifier() DamageModifier { return DamageModifier{Type: ModifierNone} }

// AbilityModifier returns a damage modifier from ability a.
func AbilityModifier(a Ability) DamageModifier {
	return DamageModifier{Type: ModifierAbilityScore, Ability: a}
}

// Finite returns a finite effect duration.
func Finite(count int, unit TimeUnit) EffectDuration {
	return EffectDuration{Type: DurationFinite, Count: count, Unit: unit}
}

// Indefinite returns the indefinite effect duration.
func Indefinite() EffectDuration { return EffectDuration{Type: DurationIndefinite} }
