package heap

import "testing"

func requireEqualInt(t *testing.T, label string, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("%s: got %d, want %d", label, got, want)
	}
}

func TestAllocReturnsSmallestFittingClass(t *testing.T) {
	h := New([]int{16, 64, 256}, 2)

	p := h.Alloc(10)
	if p == nil {
		t.Fatal("Alloc(10): got nil")
	}
	requireEqualInt(t, "len", len(p), 10)
	requireEqualInt(t, "class", h.ClassOf(p), 0)
}

func TestAllocNeverFallsBackToLargerClass(t *testing.T) {
	h := New([]int{16}, 1)

	if p := h.Alloc(17); p != nil {
		t.Fatalf("Alloc(17) against a single 16-byte class: got %v, want nil", p)
	}
}

func TestAllocExhaustionReturnsNil(t *testing.T) {
	h := New([]int{16}, 1)

	if p := h.Alloc(8); p == nil {
		t.Fatal("first Alloc(8): got nil, want a block")
	}
	if p := h.Alloc(8); p != nil {
		t.Fatalf("second Alloc(8) against an exhausted class: got %v, want nil", p)
	}
}

func TestFreeReturnsBlockToItsOwnClass(t *testing.T) {
	h := New([]int{16, 64}, 1)

	p := h.Alloc(8)
	if p == nil {
		t.Fatal("Alloc(8): got nil")
	}
	h.Free(p)

	q := h.Alloc(8)
	if q == nil {
		t.Fatal("Alloc(8) after Free: got nil, want the freed block back")
	}
	requireEqualInt(t, "class", h.ClassOf(q), 0)
}

func TestFreeOfForeignPointerPanics(t *testing.T) {
	h := New([]int{16}, 1)
	foreign := make([]byte, 4)

	defer func() {
		if recover() == nil {
			t.Fatal("Free(foreign slice): expected a panic, got none")
		}
	}()
	h.Free(foreign)
}

func TestDoubleFreePanics(t *testing.T) {
	h := New([]int{16}, 1)
	p := h.Alloc(4)
	h.Free(p)

	defer func() {
		if recover() == nil {
			t.Fatal("second Free of the same block: expected a panic, got none")
		}
	}()
	h.Free(p)
}

func TestNewPanicsOnEmptySizeClasses(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("New with no size classes: expected a panic, got none")
		}
	}()
	New(nil, 4)
}
