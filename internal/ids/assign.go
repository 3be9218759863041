// SPDX-License-Identifier: MPL-2.0

package ids

import "fgmod-cli/pkg/content"

// Assign stamps an identifier on every spell and table of m, in content order.
// It is the only place identifiers are handed to records; loading and
// emission never allocate.
func Assign(a *Allocator, m *content.Module) {
	for i := range m.Spells {
		m.Spells[i].ID = a.Next(Spell)
	}
	for i := range m.Tables {
		m.Tables[i].ID = a.Next(Table)
	}
}
