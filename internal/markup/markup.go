// SPDX-License-Identifier: MPL-2.0

package markup

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Declaration is the prolog written by WithDeclaration.
const Declaration = `<?xml version="1.0" encoding="UTF-8"?>`

var (
	// ErrFinished is returned by every write after Finish has been called.
	ErrFinished = errors.New("markup builder already finished")
	// ErrUnclosed is returned by Finish when an element scope is still open.
	ErrUnclosed = errors.New("markup builder has unclosed elements")
	// ErrInvalidName is the sentinel error wrapped by InvalidNameError.
	ErrInvalidName = errors.New("invalid element or attribute name")
	// ErrMalformedRaw is the sentinel error wrapped by MalformedRawError.
	ErrMalformedRaw = errors.New("malformed raw markup block")
	// ErrFragmentOpen is returned by Splice for a fragment that was not finished.
	ErrFragmentOpen = errors.New("fragment not finished")
)

type (
	// Attr is one name="value" pair on a start tag.
	Attr struct {
		Name  string
		Value string
	}

	// Option configures a Builder.
	Option func(*Builder)

	// Builder accumulates one indented element tree. All writes go through a
	// mutex, but scopes are positional: code running inside an Element body owns
	// the open scope. Concurrent producers should each fill a Fragment and hand
	// it back with Splice.
	Builder struct {
		mu       sync.Mutex
		buf      bytes.Buffer
		indent   string
		base     int
		stack    []frame
		fragment bool
		finished bool
	}

	frame struct {
		name     string
		children bool
	}

	// InvalidNameError is returned when an element or attribute name is not a valid XML name.
	InvalidNameError struct {
		Name string
	}

	// MalformedRawError is returned when a raw block is not a well-formed markup fragment.
	MalformedRawError struct {
		Element string
		Cause   error
	}
)

// A is shorthand for an Attr literal.
func A(name, value string) Attr { return Attr{Name: name, Value: value} }

// Type returns a type="value" attribute.
func Type(value string) Attr { return Attr{Name: "type", Value: value} }

// WithDeclaration starts the document with the XML prolog.
func WithDeclaration() Option {
	return func(b *Builder) { b.buf.WriteString(Declaration) }
}

// New creates an empty Builder.
func New(opts ...Option) *Builder {
	b := &Builder{indent: "\t"}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Element writes a start tag, runs body inside that scope and then writes the
// matching end tag. The end tag is written on every exit path, including when
// body fails or panics, so the tree stays balanced; body's error is returned
// after the scope is closed.
func (b *Builder) Element(name string, attrs []Attr, body func(*Builder) error) (err error) {
	b.mu.Lock()
	if err := b.writable(); err != nil {
		b.mu.Unlock()
		return err
	}
	if err := b.openTag(name, attrs, false); err != nil {
		b.mu.Unlock()
		return err
	}
	b.stack = append(b.stack, frame{name: name})
	depth := len(b.stack)
	b.mu.Unlock()

	defer func() {
		if closeErr := b.close(name, depth); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if body == nil {
		return nil
	}
	return body(b)
}

// Empty writes a self-closing element.
func (b *Builder) Empty(name string, attrs ...Attr) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.writable(); err != nil {
		return err
	}
	return b.openTag(name, attrs, true)
}

// Text writes an element whose only content is the escaped value.
func (b *Builder) Text(name, value string, attrs ...Attr) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.writable(); err != nil {
		return err
	}
	if err := b.openTag(name, attrs, false); err != nil {
		return err
	}
	escape(&b.buf, value)
	b.endTag(name)
	return nil
}

// Number writes an element containing n in base 10.
func (b *Builder) Number(name string, n int, attrs ...Attr) error {
	return b.Text(name, strconv.Itoa(n), attrs...)
}

// Raw writes an element whose body is already-rendered markup. The block is
// not escaped again; it is placed between single newlines. A block that is not
// a well-formed fragment is rejected so the document can never be broken by it.
func (b *Builder) Raw(name, block string, attrs ...Attr) error {
	if err := checkFragment(block); err != nil {
		return &MalformedRawError{Element: name, Cause: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.writable(); err != nil {
		return err
	}
	if err := b.openTag(name, attrs, false); err != nil {
		return err
	}
	b.buf.WriteByte('\n')
	b.buf.WriteString(block)
	b.buf.WriteByte('\n')
	b.writeIndent(b.base + len(b.stack))
	b.endTag(name)
	return nil
}

// Fragment returns a detached builder positioned at the current depth. Fill
// it, Finish it, and Splice it back to append its content at this point.
func (b *Builder) Fragment() *Builder {
	b.mu.Lock()
	defer b.mu.Unlock()

	return &Builder{
		indent:   b.indent,
		base:     b.base + len(b.stack),
		fragment: true,
	}
}

// Splice appends a finished fragment's content to the current scope.
func (b *Builder) Splice(f *Builder) error {
	f.mu.Lock()
	if !f.finished {
		f.mu.Unlock()
		return ErrFragmentOpen
	}
	content := f.buf.Bytes()
	f.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.writable(); err != nil {
		return err
	}
	if len(content) == 0 {
		return nil
	}
	b.markChild()
	b.buf.Write(content)
	return nil
}

// Finish seals the builder and returns the document text. Any later write
// fails with ErrFinished.
func (b *Builder) Finish() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.finished {
		return "", ErrFinished
	}
	if len(b.stack) > 0 {
		return "", fmt.Errorf("%w: %s", ErrUnclosed, b.stack[len(b.stack)-1].name)
	}
	b.finished = true
	return b.buf.String(), nil
}

func (b *Builder) writable() error {
	if b.finished {
		return ErrFinished
	}
	return nil
}

// close pops the scope opened at depth and writes its end tag.
func (b *Builder) close(name string, depth int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.stack) != depth || b.stack[depth-1].name != name {
		return fmt.Errorf("%w: closing %q out of order", ErrUnclosed, name)
	}
	top := b.stack[depth-1]
	b.stack = b.stack[:depth-1]
	if top.children {
		b.buf.WriteByte('\n')
		b.writeIndent(b.base + len(b.stack))
	}
	b.endTag(name)
	return nil
}

// openTag starts a new node on its own line and writes <name attrs> or <name attrs/>.
func (b *Builder) openTag(name string, attrs []Attr, selfClose bool) error {
	if !isName(name) {
		return &InvalidNameError{Name: name}
	}
	for _, a := range attrs {
		if !isName(a.Name) {
			return &InvalidNameError{Name: a.Name}
		}
	}

	if b.buf.Len() > 0 || b.fragment {
		b.buf.WriteByte('\n')
	}
	b.writeIndent(b.base + len(b.stack))
	b.markChild()

	b.buf.WriteByte('<')
	b.buf.WriteString(name)
	for _, a := range attrs {
		b.buf.WriteByte(' ')
		b.buf.WriteString(a.Name)
		b.buf.WriteString(`="`)
		escape(&b.buf, a.Value)
		b.buf.WriteByte('"')
	}
	if selfClose {
		b.buf.WriteString("/>")
	} else {
		b.buf.WriteByte('>')
	}
	return nil
}

func (b *Builder) endTag(name string) {
	b.buf.WriteString("</")
	b.buf.WriteString(name)
	b.buf.WriteByte('>')
}

func (b *Builder) markChild() {
	if n := len(b.stack); n > 0 {
		b.stack[n-1].children = true
	}
}

func (b *Builder) writeIndent(depth int) {
	if depth <= 0 || b.indent == "" {
		return
	}
	b.buf.WriteString(strings.Repeat(b.indent, depth))
}

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidName, e.Name)
}

// Unwrap returns ErrInvalidName for errors.Is() compatibility.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

// Error implements the error interface.
func (e *MalformedRawError) Error() string {
	return fmt.Sprintf("%s in <%s>: %v", ErrMalformedRaw, e.Element, e.Cause)
}

// Unwrap returns both the sentinel and the parser error.
func (e *MalformedRawError) Unwrap() []error { return []error{ErrMalformedRaw, e.Cause} }
