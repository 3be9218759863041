// SPDX-License-Identifier: MPL-2.0

package ids

import (
	"testing"

	"fgmod-cli/pkg/content"
)

func TestAssign(t *testing.T) {
	t.Parallel()

	m := &content.Module{
		Spells: []content.Spell{content.ExampleSpell("a"), content.ExampleSpell("b"), content.ExampleSpell("c")},
		Tables: []content.Table{content.ExampleTable("x"), content.ExampleTable("y")},
	}
	a := New()
	Assign(a, m)

	for i, s := range m.Spells {
		if s.ID != i+1 {
			t.Errorf("Spells[%d].ID = %d, want %d", i, s.ID, i+1)
		}
	}
	for i, tbl := range m.Tables {
		if tbl.ID != i+1 {
			t.Errorf("Tables[%d].ID = %d, want %d", i, tbl.ID, i+1)
		}
	}
	if a.Peek(Spell) != 3 || a.Peek(Table) != 2 {
		t.Errorf("Peek = %d/%d, want 3/2", a.Peek(Spell), a.Peek(Table))
	}
}

func TestAssign_FreshAllocatorRestarts(t *testing.T) {
	t.Parallel()

	m := &content.Module{Spells: []content.Spell{content.ExampleSpell("a")}}
	Assign(New(), m)
	Assign(New(), m)
	if m.Spells[0].ID != 1 {
		t.Errorf("ID after second run = %d, want 1", m.Spells[0].ID)
	}
}
