package thread

import "fmt"

// Pool is the kernel's fixed-size TCB array together with one FIFO
// ready queue per priority level.
//
// Invariants (spec.md §3, §8 P3/P4):
//   - a TCB is "in use" iff InUse();
//   - a TCB is on exactly one ready queue iff Ready();
//   - the current thread (tracked by the kernel, not by Pool) is never
//     on any ready queue.
//
// Pool itself never touches "current" — that is the kernel's job,
// since only the kernel knows which trap is in progress. Pool only
// guarantees the ready-queue invariants above.
type Pool struct {
	nameSize int
	tcbs     []TCB
	queues   []readyQueue
}

type readyQueue struct {
	head, tail *TCB
}

// NewPool allocates threadNum TCB slots and priorityNum ready queues,
// assigning each slot its stable 1-based ID.
func NewPool(threadNum, priorityNum, nameSize int) *Pool {
	p := &Pool{
		nameSize: nameSize,
		tcbs:     make([]TCB, threadNum),
		queues:   make([]readyQueue, priorityNum),
	}
	for i := range p.tcbs {
		p.tcbs[i].id = ID(i + 1)
	}
	return p
}

// Get returns the TCB for id, or nil if id is out of range.
func (p *Pool) Get(id ID) *TCB {
	if id <= 0 || int(id) > len(p.tcbs) {
		return nil
	}
	return &p.tcbs[id-1]
}

// Alloc scans for the first free slot, resets it, bound-copies name,
// and assigns priority. It does not enqueue the new TCB — callers
// decide when a newly created thread becomes ready.
func (p *Pool) Alloc(name string, priority int, entry EntryFunc, argv []string) *TCB {
	for i := range p.tcbs {
		t := &p.tcbs[i]
		if t.InUse() {
			continue
		}
		t.reset()
		t.SetName(name, p.nameSize)
		t.priority = priority
		t.entry = entry
		t.argv = argv
		return t
	}
	return nil
}

// Free zeroes t's slot, making it reusable. t must already be off
// every ready queue (spec.md §4.3's exit contract).
func (p *Pool) Free(t *TCB) {
	id := t.id
	t.reset()
	t.id = id
}

// PriorityNum reports the number of ready-queue levels.
func (p *Pool) PriorityNum() int { return len(p.queues) }

// Enqueue appends t to the tail of its priority's ready queue. A
// no-op (not an error) if t is already on a queue, matching spec.md
// §9's "double-wakeup is a no-op" guidance generalized to every
// re-enqueue path.
func (p *Pool) Enqueue(t *TCB) {
	if t.Ready() {
		return
	}
	q := &p.queues[t.priority]
	if q.tail != nil {
		q.tail.next = t
	} else {
		q.head = t
	}
	q.tail = t
	t.flags |= FlagReady
}

// Dequeue removes t from the head of its priority's ready queue. By
// the kernel's invariant, t is always at its queue's head when this is
// called (spec.md §3's "removal of the current thread for syscall
// processing is head"). Dequeue panics if t is not actually the head
// of its queue — that would mean the invariant was already broken
// elsewhere.
func (p *Pool) Dequeue(t *TCB) {
	if !t.Ready() {
		return
	}
	q := &p.queues[t.priority]
	if q.head != t {
		panic(fmt.Sprintf("thread: TCB %q is not at the head of priority %d's ready queue", t.Name(), t.priority))
	}
	q.head = t.next
	if q.head == nil {
		q.tail = nil
	}
	t.flags &^= FlagReady
	t.next = nil
}

// Head returns the first non-empty queue's head thread, scanning from
// priority 0 (highest) to PriorityNum-1 (lowest), and the priority it
// was found at. Returns (nil, -1) if every queue is empty — the
// kernel's system-down trigger.
func (p *Pool) Head() (*TCB, int) {
	for i := range p.queues {
		if p.queues[i].head != nil {
			return p.queues[i].head, i
		}
	}
	return nil, -1
}
