// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	cause := errors.New("no such file")
	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "load module"},
			want: "failed to load module",
		},
		{
			name: "with resource",
			err:  &ActionableError{Operation: "load module", Resource: "book.cue"},
			want: "failed to load module: book.cue",
		},
		{
			name: "with resource and cause",
			err:  &ActionableError{Operation: "load module", Resource: "book.cue", Cause: cause},
			want: "failed to load module: book.cue: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := fmt.Errorf("outer: %w", NewErrorContext().
		WithOperation("write archive").
		Wrap(fmt.Errorf("inner: %w", sentinel)).
		BuildError())

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should find the sentinel through the ActionableError")
	}
	var ae *ActionableError
	if !errors.As(err, &ae) || ae.Operation != "write archive" {
		t.Errorf("errors.As() = %#v", ae)
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("load spell").
		WithResource("spells/fireball.yaml").
		WithSuggestion("Check the casting-time field").
		WithSuggestion("Run 'fgmod create-spell'").
		Wrap(fmt.Errorf("decode: %w", errors.New("conflicting values"))).
		Build()

	plain := err.Format(false)
	for _, want := range []string{
		"failed to load spell: spells/fireball.yaml",
		"\n  • Check the casting-time field",
		"\n  • Run 'fgmod create-spell'",
	} {
		if !strings.Contains(plain, want) {
			t.Errorf("Format(false) missing %q:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "Error chain") {
		t.Errorf("Format(false) should not include the chain:\n%s", plain)
	}

	verbose := err.Format(true)
	for _, want := range []string{"Error chain:", "1. decode: conflicting values", "2. conflicting values"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, verbose)
		}
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if got := NewErrorContext().WithResource("x").Build(); got != nil {
		t.Errorf("Build() without operation = %#v, want nil", got)
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %#v, want untyped nil", err)
	}

	ae := NewErrorContext().WithOperation("compile module").WithIssue(MarkupFailedId).Build()
	if ae.Issue != MarkupFailedId {
		t.Errorf("Issue = %d, want %d", ae.Issue, MarkupFailedId)
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if got := WrapWithContext(nil, "op", "res"); got != nil {
		t.Errorf("WrapWithContext(nil) = %#v, want nil", got)
	}
	cause := errors.New("boom")
	got := WrapWithContext(cause, "read table", "tables/loot.toml")
	if got.Error() != "failed to read table: tables/loot.toml: boom" {
		t.Errorf("Error() = %q", got.Error())
	}
}
