// SPDX-License-Identifier: MPL-2.0

package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"fgmod-cli/internal/issue"
	"fgmod-cli/pkg/cueutil"
)

const fireBoltYAML = `name: Fire Bolt
description: Hurl a mote of fire.
casting-time:
  type: action
  count: 1
school: Evocation
spell-level:
  type: Cantrip
group: Wizard
actions:
  attacks:
    - range: ranged
      save:
        type: dc
  damages:
    - damage:
        - damage-type: fire
          dice:
            - dice-type: d10
              count: 1
`

const fireBoltJSON = `{
  "name": "Fire Bolt",
  "description": "Hurl a mote of fire.",
  "casting-time": {"type": "action", "count": 1},
  "school": "Evocation",
  "spell-level": {"type": "Cantrip"},
  "group": "Wizard",
  "actions": {
    "attacks": [{"range": "ranged", "save": {"type": "dc"}}],
    "damages": [{"damage": [{"damage-type": "fire", "dice": [{"dice-type": "d10", "count": 1}]}]}]
  }
}
`

const fireBoltTOML = `name = "Fire Bolt"
description = "Hurl a mote of fire."
school = "Evocation"
group = "Wizard"

[casting-time]
type = "action"
count = 1

[spell-level]
type = "Cantrip"

[[actions.attacks]]
range = "ranged"
save = { type = "dc" }

[[actions.damages]]
[[actions.damages.damage]]
damage-type = "fire"
dice = [{ dice-type = "d10", count = 1 }]
`

const fireBoltCUE = `name:        "Fire Bolt"
description: "Hurl a mote of fire."
"casting-time": {type: "action", count: 1}
school: "Evocation"
"spell-level": {type: "Cantrip"}
group: "Wizard"
actions: {
	attacks: [{range: "ranged", save: {type: "dc"}}]
	damages: [{damage: [{"damage-type": "fire", dice: [{"dice-type": "d10", count: 1}]}]}]
}
`

// sameDocument compares two values by their JSON encoding, which ignores the
// nil/empty slice distinction introduced by schema defaults.
func sameDocument(t *testing.T, got, want any) {
	t.Helper()
	g, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal got: %v", err)
	}
	w, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal want: %v", err)
	}
	if !bytes.Equal(g, w) {
		t.Errorf("documents differ\ngot:  %s\nwant: %s", g, w)
	}
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecodeSpell_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		data     string
	}{
		{"fire-bolt.yaml", fireBoltYAML},
		{"fire-bolt.yml", fireBoltYAML},
		{"fire-bolt.json", fireBoltJSON},
		{"fire-bolt.toml", fireBoltTOML},
		{"fire-bolt.cue", fireBoltCUE},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()

			s, err := DecodeSpell([]byte(tt.data), tt.filename)
			if err != nil {
				t.Fatalf("DecodeSpell() error: %v", err)
			}
			if s.Name != "Fire Bolt" || s.School != "Evocation" || s.Group != "Wizard" {
				t.Errorf("scalar fields = %q/%q/%q", s.Name, s.School, s.Group)
			}
			if s.CastingTime != Action(1) {
				t.Errorf("CastingTime = %+v, want Action(1)", s.CastingTime)
			}
			if s.SpellLevel != Cantrip() {
				t.Errorf("SpellLevel = %+v, want Cantrip", s.SpellLevel)
			}
			if s.NeedsPreparation || s.IsRitual {
				t.Error("boolean flags should default to false")
			}
			if s.ID != 0 {
				t.Errorf("ID = %d, decoding must not assign ids", s.ID)
			}
			if len(s.Actions.Saves) != 0 || len(s.Actions.Effects) != 0 {
				t.Errorf("absent action lists should be empty, got %+v", s.Actions)
			}
			if got := s.Actions.Count(); got != 2 {
				t.Errorf("Actions.Count() = %d, want 2", got)
			}
			g := s.Actions.Damages[0].Damage[0]
			if g.Modifier != NoModifier() {
				t.Errorf("damage modifier = %+v, want none by default", g.Modifier)
			}
			if len(g.Dice) != 1 || g.Dice[0] != (Dice{DiceType: "d10", Count: 1}) {
				t.Errorf("dice = %+v", g.Dice)
			}
		})
	}
}

func TestDecodeSpell_AbilityDifficultyDefaults(t *testing.T) {
	t.Parallel()

	doc := `name: Hold
description: ""
casting-time: {type: instant}
school: Enchantment
spell-level: {type: Level, number: 2}
group: ""
actions:
  saves:
    - stat: {type: ability-score, ability: wis}
      save:
        type: ability
        stat: {type: ability-score, ability: cha}
`
	s, err := DecodeSpell([]byte(doc), "hold.yaml")
	if err != nil {
		t.Fatalf("DecodeSpell() error: %v", err)
	}
	if s.SpellLevel != Level(2) {
		t.Errorf("SpellLevel = %+v, want Level(2)", s.SpellLevel)
	}
	save := s.Actions.Saves[0]
	if save.IsMagic {
		t.Error("is-magic should default to false")
	}
	d := save.Save
	if d.Type != DifficultyAbility || d.Stat == nil || d.Stat.Ability != AbilityCharisma {
		t.Fatalf("difficulty = %+v", d)
	}
	if d.IsProficient || d.Bonus != 0 {
		t.Errorf("is-proficient/bonus = %v/%d, want false/0", d.IsProficient, d.Bonus)
	}
}

func TestDecodeSpell_Rejects(t *testing.T) {
	t.Parallel()

	base := `name: X
description: ""
school: ""
group: ""
spell-level: {type: Cantrip}
`
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown casting time", base + "casting-time: {type: ritual}\nactions: {}\n"},
		{"action without count", base + "casting-time: {type: action}\nactions: {}\n"},
		{"bad ability", base + "casting-time: {type: instant}\nactions: {saves: [{stat: {type: ability-score, ability: luck}, save: {type: dc}}]}\n"},
		{"bad dice", base + "casting-time: {type: instant}\nactions: {damages: [{damage: [{damage-type: fire, dice: [{dice-type: '10', count: 1}]}]}]}\n"},
		{"unknown field", base + "casting-time: {type: instant}\nactions: {}\ncolour: red\n"},
		{"damage without groups", base + "casting-time: {type: instant}\nactions: {damages: [{damage: []}]}\n"},
		{"damage group without dice", base + "casting-time: {type: instant}\nactions: {damages: [{damage: [{damage-type: fire, dice: []}]}]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := DecodeSpell([]byte(tt.doc), "bad.yaml"); err == nil {
				t.Errorf("DecodeSpell() accepted %q", tt.doc)
			}
		})
	}
}

func TestDecodeTable(t *testing.T) {
	t.Parallel()

	doc := `{"name": "Loot", "description": "What you find", "formatted-text": "*shiny*",
"ranges": [{"from": 1, "until": 50, "description": "copper"}, {"from": 51, "until": 100, "description": "gold"}]}`
	tbl, err := DecodeTable([]byte(doc), "loot.json")
	if err != nil {
		t.Fatalf("DecodeTable() error: %v", err)
	}
	if tbl.FormattedText != "*shiny*" || len(tbl.Ranges) != 2 || tbl.Ranges[1].Description != "gold" {
		t.Errorf("table = %+v", tbl)
	}

	empty, err := DecodeTable([]byte(`{"name": "Empty", "description": ""}`), "empty.json")
	if err != nil {
		t.Fatalf("DecodeTable(no ranges) error: %v", err)
	}
	if len(empty.Ranges) != 0 {
		t.Errorf("Ranges = %+v, want empty", empty.Ranges)
	}

	_, err = DecodeTable([]byte(`{"name": "Bad", "description": "", "ranges": [{"from": 9, "until": 2, "description": ""}]}`), "bad.json")
	if !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("inverted range error = %v, want ErrInvalidRecord", err)
	}
}

func TestDecodeModule(t *testing.T) {
	t.Parallel()

	doc := `name: "Test Book"
author: "Me"
source: "Homebrew"
ruleset: "5e"
"spell-files": ["a.yaml"]
`
	def, err := DecodeModule([]byte(doc), "module.cue")
	if err != nil {
		t.Fatalf("DecodeModule() error: %v", err)
	}
	if def.Category != CategorySourceBook {
		t.Errorf("Category = %q, want default %q", def.Category, CategorySourceBook)
	}
	if len(def.TableFiles) != 0 || len(def.SpellFiles) != 1 {
		t.Errorf("files = %v / %v", def.SpellFiles, def.TableFiles)
	}

	if _, err := DecodeModule([]byte(`name: "X", author: "", source: "", ruleset: "4e"`), "module.cue"); err == nil {
		t.Error("DecodeModule() accepted ruleset 4e")
	}
}

func TestExampleRoundTrip(t *testing.T) {
	t.Parallel()

	for _, f := range cueutil.Formats() {
		t.Run(string(f), func(t *testing.T) {
			t.Parallel()

			spell := ExampleSpell("Sample Spell")
			data, err := Encode(spell, f)
			if err != nil {
				t.Fatalf("Encode(spell) error: %v", err)
			}
			gotSpell, err := DecodeSpell(data, "spell"+f.Extension())
			if err != nil {
				t.Fatalf("DecodeSpell() error: %v\n%s", err, data)
			}
			sameDocument(t, gotSpell, spell)

			table := ExampleTable("Sample Table")
			data, err = Encode(table, f)
			if err != nil {
				t.Fatalf("Encode(table) error: %v", err)
			}
			gotTable, err := DecodeTable(data, "table"+f.Extension())
			if err != nil {
				t.Fatalf("DecodeTable() error: %v\n%s", err, data)
			}
			sameDocument(t, gotTable, table)
		})
	}
}

func TestExampleSpell_Contents(t *testing.T) {
	t.Parallel()

	s := ExampleSpell("Sample")
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	a := s.Actions
	if len(a.Attacks) != 2 || len(a.Saves) != 2 || len(a.Damages) != 1 || len(a.Effects) != 4 {
		t.Errorf("action counts = %d/%d/%d/%d, want 2/2/1/4",
			len(a.Attacks), len(a.Saves), len(a.Damages), len(a.Effects))
	}
	if s.Duration != "1 minute" || s.ShortDescription != "Something simple" {
		t.Errorf("optional fields = %q/%q", s.Duration, s.ShortDescription)
	}
}

func TestLoadModule(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var spellFiles []string
	for i := range 6 {
		name := fmt.Sprintf("spells/spell-%d.json", i)
		s := ExampleSpell(fmt.Sprintf("Spell %d", i))
		data, err := Encode(s, cueutil.FormatJSON)
		if err != nil {
			t.Fatal(err)
		}
		writeFile(t, dir, name, string(data))
		spellFiles = append(spellFiles, name)
	}
	writeFile(t, dir, "tables/loot.toml", "name = \"Loot\"\ndescription = \"d100\"\n[[ranges]]\nfrom = 1\nuntil = 100\ndescription = \"coins\"\n")

	def := ModuleDefinition{
		Name: "Test Book", Author: "Me", Source: "Homebrew",
		Category: CategorySourceBook, Ruleset: RulesetFifthEditionShort,
		SpellFiles: spellFiles,
		TableFiles: []string{"tables/loot.toml"},
	}
	data, err := Encode(def, cueutil.FormatCUE)
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, dir, "module.cue", string(data))

	m, err := LoadModule(context.Background(), path, WithWorkers(4))
	if err != nil {
		t.Fatalf("LoadModule() error: %v", err)
	}
	if m.Dir != dir {
		t.Errorf("Dir = %q, want %q", m.Dir, dir)
	}
	if len(m.Spells) != 6 || len(m.Tables) != 1 {
		t.Fatalf("loaded %d spells, %d tables", len(m.Spells), len(m.Tables))
	}
	for i, s := range m.Spells {
		if want := fmt.Sprintf("Spell %d", i); s.Name != want {
			t.Errorf("Spells[%d].Name = %q, want %q (declaration order)", i, s.Name, want)
		}
	}
	if m.Tables[0].Ranges[0].Description != "coins" {
		t.Errorf("table = %+v", m.Tables[0])
	}
}

func TestLoadModule_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "name: [\n")
	writeFile(t, dir, "spell.txt", "name: X\n")
	moduleWith := func(name, spellFile string) string {
		return writeFile(t, dir, name, fmt.Sprintf(
			"name: Book\nauthor: a\nsource: s\nruleset: 5e\nspell-files: [%q]\n", spellFile))
	}

	tests := []struct {
		name      string
		path      string
		wantIssue issue.Id
		wantRes   string
	}{
		{"module not found", filepath.Join(dir, "nope.yaml"), issue.ModuleNotFoundId, filepath.Join(dir, "nope.yaml")},
		{"unparsable spell", moduleWith("m1.yaml", "broken.yaml"), issue.ContentParseErrorId, filepath.Join(dir, "broken.yaml")},
		{"unsupported format", moduleWith("m2.yaml", "spell.txt"), issue.UnsupportedFormatId, filepath.Join(dir, "spell.txt")},
		{"missing spell file", moduleWith("m3.yaml", "missing.yaml"), 0, filepath.Join(dir, "missing.yaml")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadModule(context.Background(), tt.path)
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("LoadModule() error = %v, want *issue.ActionableError", err)
			}
			if ae.Issue != tt.wantIssue {
				t.Errorf("Issue = %d, want %d", ae.Issue, tt.wantIssue)
			}
			if ae.Resource != tt.wantRes {
				t.Errorf("Resource = %q, want %q", ae.Resource, tt.wantRes)
			}
		})
	}
}

func TestLoadModule_Canceled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", fireBoltYAML)
	path := writeFile(t, dir, "module.yaml", "name: Book\nauthor: a\nsource: s\nruleset: 5e\nspell-files: [a.yaml]\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LoadModule(ctx, path); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadModule(canceled) error = %v, want context.Canceled", err)
	}
}

func TestVariants_UnknownTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		marshal func() error
		check   func() error
	}{
		{
			"casting time",
			func() error { _, err := json.Marshal(CastingTime{Type: "ritual"}); return err },
			func() error { return CastingTime{Type: "ritual"}.Validate() },
		},
		{
			"spell level",
			func() error { _, err := json.Marshal(SpellLevel{Type: "Epic"}); return err },
			func() error { return SpellLevel{Type: "Epic"}.Validate() },
		},
		{
			"difficulty",
			func() error { _, err := json.Marshal(Difficulty{Type: "luck"}); return err },
			func() error { return Difficulty{Type: "luck"}.Validate() },
		},
		{
			"damage modifier",
			func() error { _, err := json.Marshal(DamageModifier{Type: "spell"}); return err },
			func() error { return DamageModifier{Type: "spell"}.Validate() },
		},
		{
			"effect duration",
			func() error { _, err := json.Marshal(EffectDuration{Type: "day"}); return err },
			func() error { return EffectDuration{Type: "day"}.Validate() },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.marshal(); !errors.Is(err, ErrUnknownVariant) {
				t.Errorf("marshal error = %v, want ErrUnknownVariant", err)
			}
			if err := tt.check(); !errors.Is(err, ErrUnknownVariant) {
				t.Errorf("Validate() error = %v, want ErrUnknownVariant", err)
			}
		})
	}
}

func TestSpellValidate_NamesField(t *testing.T) {
	t.Parallel()

	s := ExampleSpell("Broken")
	s.Actions.Effects[2].Duration = Finite(1, "week")

	err := s.Validate()
	var rec *InvalidRecordError
	if !errors.As(err, &rec) {
		t.Fatalf("Validate() error = %v, want *InvalidRecordError", err)
	}
	if rec.Record != "Broken" || rec.Field != "actions.effects[2].duration" {
		t.Errorf("error = %+v", rec)
	}
}

func TestSpellValidate_EmptyDamageLists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*Spell)
		wantField string
	}{
		{"no groups", func(s *Spell) { s.Actions.Damages[0].Damage = nil }, "actions.damages[0].damage"},
		{"no dice", func(s *Spell) { s.Actions.Damages[0].Damage[0].Dice = nil }, "actions.damages[0].damage[0].dice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := ExampleSpell("Empty")
			s.Actions.Damages = []Damage{{Damage: []DamageGroup{{
				Modifier:   NoModifier(),
				DamageType: "fire",
				Dice:       []Dice{{DiceType: "d6", Count: 1}},
			}}}}
			tt.mutate(&s)

			var rec *InvalidRecordError
			if err := s.Validate(); !errors.As(err, &rec) || rec.Field != tt.wantField {
				t.Errorf("Validate() error = %v, want *InvalidRecordError on %s", err, tt.wantField)
			}
		})
	}
}
