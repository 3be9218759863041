// SPDX-License-Identifier: MPL-2.0

// Package assemble compiles a loaded module into the client and definition
// documents and hands them to an archive sink.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"fgmod-cli/internal/archive"
	"fgmod-cli/internal/emit"
	"fgmod-cli/internal/ids"
	"fgmod-cli/internal/issue"
	"fgmod-cli/internal/markdown"
	"fgmod-cli/internal/markup"
	"fgmod-cli/pkg/content"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// ClientEntry is the archive entry name of the client document.
	ClientEntry = "client.xml"
	// DefinitionEntry is the archive entry name of the definition document.
	DefinitionEntry = "definition.xml"

	documentVersion     = "4.1"
	documentDataVersion = "20210302"
	documentRelease     = "8.1|CoreRPG:4.1"

	// rulesetTag is what the client expects in the definition document for
	// every accepted ruleset spelling.
	rulesetTag = "5E"

	spellSection = "spell"
	tableSection = "tables"
)

type (
	// Assembler turns a Module into documents. The zero value is not usable;
	// Markdown must be set.
	Assembler struct {
		Markdown markdown.Converter
		Logger   *slog.Logger
		// Workers is how many records are emitted concurrently. Output is
		// identical for every value; below 1 means one.
		Workers int
		// Declaration prefixes both documents with the XML prolog.
		Declaration bool
	}

	// Documents holds the two compiled documents of one module.
	Documents struct {
		Client     string
		Definition string
	}
)

// Entries returns the archive entries in the order the client expects.
func (d *Documents) Entries() []archive.Entry {
	return []archive.Entry{
		{Name: ClientEntry, Data: []byte(d.Client)},
		{Name: DefinitionEntry, Data: []byte(d.Definition)},
	}
}

// LibraryName folds a module name into the element name of its library
// index entry: all whitespace removed, then lower-cased.
func LibraryName(name string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
	return cases.Lower(language.Und).String(stripped)
}

// Package compiles m and writes both documents to dest through sink. Nothing
// reaches the sink if compilation fails.
func (a *Assembler) Package(ctx context.Context, m *content.Module, sink archive.Sink, dest string) error {
	docs, err := a.Compile(ctx, m)
	if err != nil {
		return err
	}
	if err := sink.Write(ctx, dest, docs.Entries()); err != nil {
		return issue.NewErrorContext().
			WithOperation("write module archive").
			WithResource(dest).
			WithIssue(issue.ArchiveWriteFailedId).
			Wrap(err).
			BuildError()
	}
	a.logger().Info("module written", "path", dest,
		"spells", len(m.Spells), "tables", len(m.Tables))
	return nil
}

// Compile assigns identifiers with a fresh allocator and renders both
// documents. m itself is not modified.
func (a *Assembler) Compile(ctx context.Context, m *content.Module) (*Documents, error) {
	for _, n := range []struct {
		kind  ids.Kind
		count int
	}{{ids.Spell, len(m.Spells)}, {ids.Table, len(m.Tables)}} {
		if n.count > ids.MaxID {
			return nil, issue.NewErrorContext().
				WithOperation("compile module").
				WithResource(m.Definition.Name).
				WithIssue(issue.TooManyRecordsId).
				Wrap(fmt.Errorf("%d %s records, at most %d allowed", n.count, n.kind, ids.MaxID)).
				BuildError()
		}
	}

	run := *m
	run.Spells = slices.Clone(m.Spells)
	run.Tables = slices.Clone(m.Tables)
	alloc := ids.New()
	ids.Assign(alloc, &run)
	a.logger().Debug("identifiers assigned",
		"spells", alloc.Peek(ids.Spell), "tables", alloc.Peek(ids.Table))

	definition, err := a.Definition(&run.Definition)
	if err != nil {
		return nil, compileError(m.Definition.Name, err)
	}
	client, err := a.Client(ctx, &run)
	if err != nil {
		return nil, compileError(m.Definition.Name, err)
	}
	return &Documents{Client: client, Definition: definition}, nil
}

// Definition renders the module definition document.
func (a *Assembler) Definition(def *content.ModuleDefinition) (string, error) {
	b := a.newBuilder()
	err := b.Element("root", rootAttrs(), func(b *markup.Builder) error {
		steps := []struct{ name, value string }{
			{"name", def.Name},
			{"category", string(content.CategorySourceBook)},
			{"author", def.Author},
			{"ruleset", rulesetTag},
		}
		for _, s := range steps {
			if err := b.Text(s.name, s.value, markup.Type("string")); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.Finish()
}

// Client renders the client document of a module whose records already carry
// identifiers. Sections and library entries exist only for record kinds the
// module has.
func (a *Assembler) Client(ctx context.Context, m *content.Module) (string, error) {
	b := a.newBuilder()
	err := b.Element("root", rootAttrs(), func(b *markup.Builder) error {
		if err := a.library(b, m); err != nil {
			return err
		}
		if len(m.Spells) > 0 {
			err := b.Element(spellSection, nil, func(b *markup.Builder) error {
				return a.records(ctx, b, len(m.Spells), func(f *markup.Builder, i int) error {
					s := &m.Spells[i]
					a.logger().Debug("emitting spell", "id", s.ID, "name", s.Name)
					return emit.Spell(f, s, m.Definition.Name, a.Markdown)
				})
			})
			if err != nil {
				return err
			}
		}
		if len(m.Tables) > 0 {
			return b.Element(tableSection, nil, func(b *markup.Builder) error {
				return a.records(ctx, b, len(m.Tables), func(f *markup.Builder, i int) error {
					t := &m.Tables[i]
					a.logger().Debug("emitting table", "id", t.ID, "name", t.Name)
					return emit.Table(f, t, a.Markdown)
				})
			})
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.Finish()
}

// library writes the library index naming the module and linking each
// non-empty section.
func (a *Assembler) library(b *markup.Builder, m *content.Module) error {
	name := LibraryName(m.Definition.Name)
	return b.Element("library", nil, func(b *markup.Builder) error {
		return b.Element(name, []markup.Attr{markup.A("static", "true")}, func(b *markup.Builder) error {
			if err := b.Text("categoryname", string(content.CategorySourceBook), markup.Type("string")); err != nil {
				return err
			}
			if err := b.Text("name", name, markup.Type("string")); err != nil {
				return err
			}
			return b.Element("entries", nil, func(b *markup.Builder) error {
				if len(m.Spells) > 0 {
					if err := libraryEntry(b, spellSection, "Spells"); err != nil {
						return err
					}
				}
				if len(m.Tables) > 0 {
					return libraryEntry(b, tableSection, "Tables")
				}
				return nil
			})
		})
	})
}

func libraryEntry(b *markup.Builder, section, title string) error {
	return b.Element(section, []markup.Attr{markup.A("static", "true")}, func(b *markup.Builder) error {
		err := b.Element("librarylink", []markup.Attr{markup.Type("windowreference")}, func(b *markup.Builder) error {
			if err := b.Text("class", "reference_list"); err != nil {
				return err
			}
			return b.Text("recordname", "..")
		})
		if err != nil {
			return err
		}
		if err := b.Text("name", title, markup.Type("string")); err != nil {
			return err
		}
		return b.Text("recordtype", section, markup.Type("string"))
	})
}

// records emits n records into the current scope of b. With more than one
// worker each record is written into its own fragment concurrently; the
// fragments are spliced back in record order.
func (a *Assembler) records(ctx context.Context, b *markup.Builder, n int, emitOne func(*markup.Builder, int) error) error {
	if a.Workers <= 1 {
		for i := range n {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := emitOne(b, i); err != nil {
				return err
			}
		}
		return nil
	}

	frags := make([]*markup.Builder, n)
	for i := range frags {
		frags[i] = b.Fragment()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Workers)
	for i, f := range frags {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := emitOne(f, i); err != nil {
				return err
			}
			_, err := f.Finish()
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, f := range frags {
		if err := b.Splice(f); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assembler) newBuilder() *markup.Builder {
	if a.Declaration {
		return markup.New(markup.WithDeclaration())
	}
	return markup.New()
}

func (a *Assembler) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

func rootAttrs() []markup.Attr {
	return []markup.Attr{
		markup.A("version", documentVersion),
		markup.A("dataversion", documentDataVersion),
		markup.A("release", documentRelease),
	}
}

// compileError attaches the catalog page matching the failure class.
func compileError(module string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	c := issue.NewErrorContext().
		WithOperation("compile module").
		WithResource(module).
		Wrap(err)
	switch {
	case errors.Is(err, markup.ErrInvalidName):
		c = c.WithIssue(issue.MarkupFailedId).
			WithSuggestion("Module names become element names; use letters, digits, '-', '_' or '.' and start with a letter")
	case errors.Is(err, markup.ErrMalformedRaw):
		c = c.WithIssue(issue.MarkupFailedId)
	case errors.Is(err, content.ErrUnknownVariant), errors.Is(err, content.ErrInvalidRecord), errors.Is(err, emit.ErrMissingID):
		c = c.WithIssue(issue.InvalidRecordId)
	}
	return c.BuildError()
}
