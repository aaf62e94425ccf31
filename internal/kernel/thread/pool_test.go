package thread

import "testing"

func TestAllocFillsFirstFreeSlotAndLeavesItUnready(t *testing.T) {
	p := NewPool(2, 4, 16)

	tcb := p.Alloc("a", 1, func([]string) {}, nil)
	if tcb == nil {
		t.Fatal("Alloc: got nil on an empty pool")
	}
	if !tcb.InUse() {
		t.Fatal("Alloc: InUse() is false right after allocation")
	}
	if tcb.Ready() {
		t.Fatal("Alloc: Ready() is true before any Enqueue")
	}
}

func TestAllocExhaustionReturnsNil(t *testing.T) {
	p := NewPool(1, 4, 16)
	if p.Alloc("a", 0, func([]string) {}, nil) == nil {
		t.Fatal("first Alloc: got nil on an empty single-slot pool")
	}
	if p.Alloc("b", 0, func([]string) {}, nil) != nil {
		t.Fatal("second Alloc against a full pool: expected nil")
	}
}

func TestFreeReclaimsSlotForAlloc(t *testing.T) {
	p := NewPool(1, 4, 16)
	first := p.Alloc("a", 0, func([]string) {}, nil)
	p.Free(first)

	second := p.Alloc("b", 0, func([]string) {}, nil)
	if second == nil {
		t.Fatal("Alloc after Free: got nil, want the reclaimed slot")
	}
	if second.ID() != first.ID() {
		t.Fatalf("Alloc after Free: got ID %d, want the same slot ID %d", second.ID(), first.ID())
	}
}

func TestEnqueueDequeueIsFIFOPerPriority(t *testing.T) {
	p := NewPool(3, 1, 16)
	a := p.Alloc("a", 0, func([]string) {}, nil)
	b := p.Alloc("b", 0, func([]string) {}, nil)
	c := p.Alloc("c", 0, func([]string) {}, nil)

	p.Enqueue(a)
	p.Enqueue(b)
	p.Enqueue(c)

	for _, want := range []*TCB{a, b, c} {
		head, prio := p.Head()
		if head != want {
			t.Fatalf("Head: got %q, want %q", head.Name(), want.Name())
		}
		if prio != 0 {
			t.Fatalf("Head priority: got %d, want 0", prio)
		}
		p.Dequeue(head)
	}

	if head, prio := p.Head(); head != nil {
		t.Fatalf("Head on an empty pool: got %q at priority %d, want nil", head.Name(), prio)
	}
}

func TestHeadScansHighestPrecedenceFirst(t *testing.T) {
	p := NewPool(2, 4, 16)
	low := p.Alloc("low", 3, func([]string) {}, nil)
	high := p.Alloc("high", 1, func([]string) {}, nil)

	p.Enqueue(low)
	p.Enqueue(high)

	head, prio := p.Head()
	if head != high {
		t.Fatalf("Head: got %q, want %q", head.Name(), high.Name())
	}
	if prio != 1 {
		t.Fatalf("Head priority: got %d, want 1", prio)
	}
}

func TestEnqueueOfAlreadyReadyTCBIsNoOp(t *testing.T) {
	p := NewPool(2, 1, 16)
	a := p.Alloc("a", 0, func([]string) {}, nil)
	b := p.Alloc("b", 0, func([]string) {}, nil)

	p.Enqueue(a)
	p.Enqueue(a) // double-enqueue must not duplicate a in the queue
	p.Enqueue(b)

	p.Dequeue(a)
	head, _ := p.Head()
	if head != b {
		t.Fatalf("Head after dequeuing a: got %q, want %q (a's double-enqueue should not have linked it twice)", head.Name(), b.Name())
	}
}

func TestDequeueOfNonHeadPanics(t *testing.T) {
	p := NewPool(2, 1, 16)
	a := p.Alloc("a", 0, func([]string) {}, nil)
	b := p.Alloc("b", 0, func([]string) {}, nil)
	p.Enqueue(a)
	p.Enqueue(b)

	defer func() {
		if recover() == nil {
			t.Fatal("Dequeue(b) while a is head: expected a panic, got none")
		}
	}()
	p.Dequeue(b)
}

func TestSetNameTruncatesToMaxLen(t *testing.T) {
	p := NewPool(1, 1, 16)
	tcb := p.Alloc("placeholder", 0, func([]string) {}, nil)
	tcb.SetName("abcdefgh", 4)
	if got := tcb.Name(); got != "abcd" {
		t.Fatalf("Name after SetName with maxLen=4: got %q, want %q", got, "abcd")
	}
}
