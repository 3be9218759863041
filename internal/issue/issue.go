// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

// Catalog entries. Zero means "no catalog page".
const (
	ModuleNotFoundId Id = iota + 1
	ContentParseErrorId
	UnsupportedFormatId
	InvalidRecordId
	MarkupFailedId
	ArchiveWriteFailedId
	ConfigLoadFailedId
	TooManyRecordsId
)

type (
	// Id identifies a catalog page.
	Id int

	// MarkdownMsg is the markdown body of a catalog page.
	MarkdownMsg string

	// Issue is one catalog page.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

var issues = map[Id]*Issue{
	ModuleNotFoundId: {
		id: ModuleNotFoundId,
		mdMsg: `
# Module definition not found!

fgmod could not read the module definition passed with ` + "`-m`" + `.

## Things you can try:
- Check the path; spell and table files are resolved relative to it.
- Create a minimal module definition:
~~~cue
name:     "Test Book"
author:   "Me"
source:   "Homebrew"
category: "Source Book"
ruleset:  "5e"
spell-files: ["spells/fire-bolt.cue"]
table-files: []
~~~`,
	},
	ContentParseErrorId: {
		id: ContentParseErrorId,
		mdMsg: `
# Failed to parse a content document!

A module, spell or table document does not match its schema.

## Common issues:
- Field names are kebab-case: ` + "`casting-time`, `spell-level`, `needs-preparation`" + `
- Variants need a ` + "`type`" + ` tag: ` + "`{type: \"action\", count: 1}`" + `
- Ability names are short: ` + "`str dex con int wis cha`" + `

## Things you can try:
- Generate a complete example and compare:
~~~
$ fgmod create-spell -o example.cue --name "Example"
$ fgmod create-table -o example.cue --name "Example"
~~~`,
	},
	UnsupportedFormatId: {
		id: UnsupportedFormatId,
		mdMsg: `
# Unsupported document format!

Content documents are picked by extension: ` + "`.cue`, `.json`, `.yaml`, `.yml`, `.toml`" + `.

## Things you can try:
- Rename the file with one of the supported extensions.`,
	},
	InvalidRecordId: {
		id: InvalidRecordId,
		mdMsg: `
# Invalid record!

A record passed schema validation but has values that cannot be compiled,
for example a table range whose start is after its end.

## Things you can try:
- Run ` + "`fgmod inspect -m <module>`" + ` to list records and find the one named in the error.`,
	},
	MarkupFailedId: {
		id: MarkupFailedId,
		mdMsg: `
# Failed to generate the module documents!

A record produced markup that would make the documents unreadable.

## Things you can try:
- Check the description of the named record for raw HTML or entities such as ` + "`&nbsp;`" + `.
- Run with ` + "`--verbose`" + ` to see the full error chain.`,
	},
	ArchiveWriteFailedId: {
		id: ArchiveWriteFailedId,
		mdMsg: `
# Failed to write the module archive!

The destination was left untouched.

## Things you can try:
- Check that the output directory exists and is writable.
- Another build may be writing the same file; wait for it or pick another output.`,
	},
	ConfigLoadFailedId: {
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Show the effective configuration:
~~~
$ fgmod config show
~~~
- Recreate the default file:
~~~
$ fgmod config init --force
~~~`,
	},
	TooManyRecordsId: {
		id: TooManyRecordsId,
		mdMsg: `
# Too many records!

A module can hold at most 65535 spells and 65535 tables.

## Things you can try:
- Split the content into several modules.`,
	},
}

// Id returns the catalog id.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the unrendered markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the page for a terminal with the named glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	return glamour.Render(string(i.mdMsg), stylePath)
}

// Values returns every catalog page ordered by id.
func Values() []*Issue {
	ids := maps.Keys(issues)
	slices.Sort(ids)
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

// Get returns the page for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
