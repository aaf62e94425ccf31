// Package mailbox implements the kernel's inter-thread message queues:
// one FIFO per mailbox identifier, carrying sender identity, size, and
// an opaque payload pointer, plus at most one blocked receiver. It
// depends on internal/kernel/heap for message-descriptor storage,
// exactly as kozos's sendmsg calls kzmem_alloc.
package mailbox

import (
	"unsafe"

	"github.com/kozos-go/kozos/internal/kernel/heap"
	"github.com/kozos-go/kozos/internal/kernel/thread"
)

// Message is one queued descriptor. Ownership of Payload transfers
// from sender to receiver at delivery; the kernel never copies or
// frees the bytes it points to.
type Message struct {
	Sender  thread.ID
	Size    int
	Payload unsafe.Pointer
	next    *Message
}

// Mailbox is a singly linked FIFO of pending messages plus an optional
// blocked receiver. Invariant (spec.md §3, P5): Receiver != thread.None
// implies the named thread is off every ready queue and waiting on
// exactly this mailbox.
type Mailbox struct {
	head, tail *Message
	Receiver   thread.ID
}

// Table holds the fixed set of mailboxes the kernel is configured
// with, plus the heap their message descriptors are allocated from.
type Table struct {
	boxes []Mailbox
	heap  *heap.Heap
}

// NewTable creates n mailboxes backed by h for descriptor storage.
func NewTable(n int, h *heap.Heap) *Table {
	return &Table{boxes: make([]Mailbox, n), heap: h}
}

// Count reports how many mailboxes the table holds.
func (t *Table) Count() int { return len(t.boxes) }

// Get returns the mailbox at id, or nil if id is out of range.
func (t *Table) Get(id int) *Mailbox {
	if id < 0 || id >= len(t.boxes) {
		return nil
	}
	return &t.boxes[id]
}

// descriptorSize is the byte size of a Message (32 on 64-bit
// platforms). The heap serves it from the smallest class at least that
// large, so a heap used for mailboxes needs one such class; in
// kconfig.Default the 32-byte class is the one used.
const descriptorSize = int(unsafe.Sizeof(Message{}))

// Enqueue allocates a descriptor for (sender, size, payload) from the
// table's heap and appends it to mbox's FIFO. It reports ok=false if
// the heap is exhausted — the kernel's caller treats that as fatal per
// spec.md §4.1's documented mailbox allocation-failure policy.
func (t *Table) Enqueue(mbox *Mailbox, sender thread.ID, size int, payload unsafe.Pointer) (ok bool) {
	buf := t.heap.Alloc(descriptorSize)
	if buf == nil {
		return false
	}
	mp := (*Message)(unsafe.Pointer(&buf[0]))
	*mp = Message{Sender: sender, Size: size, Payload: payload}

	if mbox.tail != nil {
		mbox.tail.next = mp
	} else {
		mbox.head = mp
	}
	mbox.tail = mp
	return true
}

// Deliver pops mbox's head message, frees its descriptor back to the
// heap, and returns the delivered fields. Deliver panics if mbox has
// no queued message — callers must check Pending first.
func (t *Table) Deliver(mbox *Mailbox) (sender thread.ID, size int, payload unsafe.Pointer) {
	mp := mbox.head
	if mp == nil {
		panic("mailbox: Deliver called with no queued message")
	}
	mbox.head = mp.next
	if mbox.head == nil {
		mbox.tail = nil
	}
	mp.next = nil

	sender, size, payload = mp.Sender, mp.Size, mp.Payload

	buf := unsafe.Slice((*byte)(unsafe.Pointer(mp)), descriptorSize)
	t.heap.Free(buf)
	return
}

// Pending reports whether mbox has at least one queued message.
func (mb *Mailbox) Pending() bool { return mb.head != nil }
