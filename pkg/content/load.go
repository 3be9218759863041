// SPDX-License-Identifier: MPL-2.0

package content

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"fgmod-cli/internal/issue"
	"fgmod-cli/pkg/cueutil"

	"golang.org/x/sync/errgroup"
)

const (
	moduleDefinition = "#Module"
	spellDefinition  = "#Spell"
	tableDefinition  = "#Table"
)

//go:embed schema.cue
var schema []byte

type (
	// LoadOption configures LoadModule.
	LoadOption func(*loadOptions)

	loadOptions struct {
		workers     int
		logger      *slog.Logger
		maxFileSize int64
	}
)

// WithWorkers bounds how many content files are read at once. Values below 1
// mean one.
func WithWorkers(n int) LoadOption {
	return func(o *loadOptions) { o.workers = max(n, 1) }
}

// WithLogger sets the logger for per-file debug lines.
func WithLogger(l *slog.Logger) LoadOption {
	return func(o *loadOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxFileSize caps the size of every document.
func WithMaxFileSize(size int64) LoadOption {
	return func(o *loadOptions) { o.maxFileSize = size }
}

// Schema returns the embedded CUE schema all documents are validated against.
func Schema() []byte {
	return schema
}

// LoadModule reads the module document at path and every spell and table file
// it lists. Content files are resolved relative to the module document and
// are read concurrently; the result keeps declaration order. The first
// failure cancels the remaining reads and is returned as an
// *issue.ActionableError naming the file.
func LoadModule(ctx context.Context, path string, opts ...LoadOption) (*Module, error) {
	o := loadOptions{
		workers:     1,
		logger:      slog.New(slog.DiscardHandler),
		maxFileSize: cueutil.DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		ctxErr := issue.NewErrorContext().
			WithOperation("load module").
			WithResource(path).
			Wrap(err)
		if errors.Is(err, fs.ErrNotExist) {
			ctxErr = ctxErr.WithIssue(issue.ModuleNotFoundId).
				WithSuggestion("Check the path passed with -m")
		}
		return nil, ctxErr.BuildError()
	}
	o.logger.Debug("processing module definition", "path", path)

	def, err := decodeModule(data, path, o.maxFileSize)
	if err != nil {
		return nil, loadError("load module", path, err)
	}

	m := &Module{
		Definition: *def,
		Spells:     make([]Spell, len(def.SpellFiles)),
		Tables:     make([]Table, len(def.TableFiles)),
		Dir:        filepath.Dir(path),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, file := range def.SpellFiles {
		g.Go(func() error {
			full := m.resolve(file)
			s, err := loadFile(gctx, full, o, decodeSpell)
			if err != nil {
				return loadError("load spell", full, err)
			}
			m.Spells[i] = *s
			return nil
		})
	}
	for i, file := range def.TableFiles {
		g.Go(func() error {
			full := m.resolve(file)
			t, err := loadFile(gctx, full, o, decodeTable)
			if err != nil {
				return loadError("load table", full, err)
			}
			m.Tables[i] = *t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

// DecodeModule parses and validates a module document. The format is taken
// from filename's extension.
func DecodeModule(data []byte, filename string) (*ModuleDefinition, error) {
	return decodeModule(data, filename, cueutil.DefaultMaxFileSize)
}

// DecodeSpell parses and validates a spell document. The format is taken from
// filename's extension.
func DecodeSpell(data []byte, filename string) (*Spell, error) {
	return decodeSpell(data, filename, cueutil.DefaultMaxFileSize)
}

// DecodeTable parses and validates a table document. The format is taken from
// filename's extension.
func DecodeTable(data []byte, filename string) (*Table, error) {
	return decodeTable(data, filename, cueutil.DefaultMaxFileSize)
}

func decodeModule(data []byte, filename string, maxSize int64) (*ModuleDefinition, error) {
	def, err := decode[ModuleDefinition](data, filename, moduleDefinition, maxSize)
	if err != nil {
		return nil, err
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func decodeSpell(data []byte, filename string, maxSize int64) (*Spell, error) {
	s, err := decode[Spell](data, filename, spellDefinition, maxSize)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeTable(data []byte, filename string, maxSize int64) (*Table, error) {
	t, err := decode[Table](data, filename, tableDefinition, maxSize)
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func decode[T any](data []byte, filename, definition string, maxSize int64) (*T, error) {
	format, err := cueutil.FormatFromPath(filename)
	if err != nil {
		return nil, err
	}
	result, err := cueutil.ParseAndDecode[T](schema, data, definition,
		cueutil.WithFilename(filename),
		cueutil.WithFormat(format),
		cueutil.WithMaxFileSize(maxSize),
	)
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

func loadFile[T any](ctx context.Context, path string, o loadOptions, decodeFn func([]byte, string, int64) (*T, error)) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o.logger.Debug("processing", "path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeFn(data, path, o.maxFileSize)
}

func (m *Module) resolve(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(m.Dir, file)
}

// loadError wraps err in an ActionableError whose catalog page matches the
// failure class.
func loadError(operation, path string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	c := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(path).
		Wrap(err)

	switch {
	case errors.Is(err, cueutil.ErrInvalidFormat):
		c = c.WithIssue(issue.UnsupportedFormatId).
			WithSuggestion(fmt.Sprintf("Rename the file with one of the extensions %v", formatExtensions()))
	case errors.Is(err, ErrInvalidRecord), errors.Is(err, ErrUnknownVariant):
		c = c.WithIssue(issue.InvalidRecordId)
	case errors.Is(err, fs.ErrNotExist):
		c = c.WithSuggestion("Paths in spell-files and table-files are relative to the module definition")
	default:
		c = c.WithIssue(issue.ContentParseErrorId).
			WithSuggestion("Run 'fgmod create-spell' or 'fgmod create-table' to see a valid document")
	}
	return c.BuildError()
}

func formatExtensions() []string {
	formats := cueutil.Formats()
	exts := make([]string, 0, len(formats))
	for _, f := range formats {
		exts = append(exts, f.Extension())
	}
	return exts
}
