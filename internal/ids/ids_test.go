// SPDX-License-Identifier: MPL-2.0

package ids

import (
	"errors"
	"sort"
	"sync"
	"testing"
)

func TestAllocator_SequentialPerKind(t *testing.T) {
	t.Parallel()

	a := New()
	for want := 1; want <= 5; want++ {
		if got := a.Next(Spell); got != want {
			t.Fatalf("Next(Spell) = %d, want %d", got, want)
		}
	}

	// Tables have their own sequence.
	if got := a.Next(Table); got != 1 {
		t.Errorf("Next(Table) = %d, want 1", got)
	}
	if got := a.Next(Spell); got != 6 {
		t.Errorf("Next(Spell) after table allocation = %d, want 6", got)
	}
}

func TestAllocator_ZeroValueUsable(t *testing.T) {
	t.Parallel()

	var a Allocator
	if got := a.Next(Table); got != 1 {
		t.Errorf("zero Allocator Next(Table) = %d, want 1", got)
	}
}

func TestAllocator_IndependentRuns(t *testing.T) {
	t.Parallel()

	first := New()
	first.Next(Spell)
	first.Next(Spell)

	second := New()
	if got := second.Next(Spell); got != 1 {
		t.Errorf("fresh allocator Next(Spell) = %d, want 1 (no drift across runs)", got)
	}
}

func TestAllocator_ConcurrentNoGapsNoRepeats(t *testing.T) {
	t.Parallel()

	const workers = 16
	const perWorker = 250

	a := New()
	var (
		mu  sync.Mutex
		got []int
		wg  sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int, 0, perWorker)
			for range perWorker {
				local = append(local, a.Next(Spell))
			}
			mu.Lock()
			got = append(got, local...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Ints(got)
	if len(got) != workers*perWorker {
		t.Fatalf("allocated %d ids, want %d", len(got), workers*perWorker)
	}
	for i, id := range got {
		if id != i+1 {
			t.Fatalf("sorted ids[%d] = %d, want %d", i, id, i+1)
		}
	}
	if peek := a.Peek(Spell); peek != workers*perWorker {
		t.Errorf("Peek(Spell) = %d, want %d", peek, workers*perWorker)
	}
}

func TestAllocator_OverflowIsFatal(t *testing.T) {
	t.Parallel()

	a := New()
	a.counters[Table].Store(MaxID)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Next() past MaxID did not panic")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %T is not an error", r)
		}
		if !errors.Is(err, ErrExhausted) {
			t.Errorf("panic error %v does not wrap ErrExhausted", err)
		}
		var exErr *ExhaustedError
		if !errors.As(err, &exErr) || exErr.Kind != Table {
			t.Errorf("panic error = %#v, want *ExhaustedError{Kind: Table}", err)
		}
	}()
	a.Next(Table)
}

func TestAllocator_UnknownKindPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrUnknownKind) {
			t.Fatalf("recover() = %v, want error wrapping ErrUnknownKind", r)
		}
	}()
	New().Next(Kind(42))
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want string
	}{
		{Spell, "spell"},
		{Table, "table"},
		{Kind(9), "kind(9)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}
