// Package thread defines the kernel's thread control blocks and the
// intrusive, per-priority ready queues they live on. It holds no
// scheduling policy (that is internal/kernel's job) — only the data
// structure and the invariants spec.md §3 places on it.
package thread

// ID is a thread's public, opaque identity: the 1-based index of its
// TCB slot in the kernel's fixed pool. Zero and negative values are
// never valid; Invalid is returned in place of the C original's
// pointer-as-id "-1" failure value.
type ID int32

// Invalid is returned by operations that fail to produce a thread,
// e.g. Run against an exhausted pool.
const Invalid ID = -1

// None marks the absence of a thread where ID is otherwise meaningful,
// e.g. an unset mailbox receiver.
const None ID = 0

// EntryFunc is a thread's top-level function, invoked with the argv it
// was created with.
type EntryFunc func(argv []string)

// Flags bits recorded on a TCB.
const (
	// FlagReady is set iff the TCB is reachable from exactly one ready
	// queue. See Pool's invariant comment.
	FlagReady uint32 = 1 << iota
)

// TCB is one schedulable thread's control block. TCBs are never heap
// allocated individually: they live by value inside Pool's fixed
// array, exactly as spec.md's "fixed-size thread control blocks"
// requires.
type TCB struct {
	id       ID
	name     [nameBufSize]byte
	nameLen  int
	priority int
	flags    uint32
	next     *TCB // ready-queue link; nil iff not linked

	entry EntryFunc
	argv  []string

	// StackBase/StackSize record the slice of the stack region this
	// thread owns. Not reclaimed on exit, per spec.md §4.3.
	StackBase int
	StackSize int
}

// nameBufSize is large enough for kconfig.Default's ThreadNameSize;
// Pool.Alloc passes the live config's bound to SetName on every create
// so a smaller configured bound still truncates correctly.
const nameBufSize = 64

// ID returns the TCB's opaque identity.
func (t *TCB) ID() ID { return t.id }

// Name returns the thread's bound-copied, printable name.
func (t *TCB) Name() string { return string(t.name[:t.nameLen]) }

// SetName bound-copies name into the TCB's fixed buffer, truncating to
// maxLen bytes rather than overflowing — the fix spec.md §9 calls for
// in place of the original's unchecked strcpy.
func (t *TCB) SetName(name string, maxLen int) {
	if maxLen > nameBufSize {
		maxLen = nameBufSize
	}
	n := copy(t.name[:maxLen], name)
	t.nameLen = n
}

// Priority returns the thread's current priority. It only changes via
// SetPriority, taking effect at the thread's next re-enqueue, per
// spec.md §3's invariant.
func (t *TCB) Priority() int { return t.priority }

// SetPriority changes the thread's priority. The change has no effect
// on a queue t is already linked into — the kernel always calls this
// only on the currently running thread, before re-enqueueing it.
func (t *TCB) SetPriority(priority int) { t.priority = priority }

// InUse reports whether this slot holds a live thread: spec.md's
// invariant "a TCB is in use iff its entry function is non-null."
func (t *TCB) InUse() bool { return t.entry != nil }

// Ready reports whether the TCB is currently linked into a ready
// queue.
func (t *TCB) Ready() bool { return t.flags&FlagReady != 0 }

// Entry returns the thread's startup record.
func (t *TCB) Entry() (EntryFunc, []string) { return t.entry, t.argv }

func (t *TCB) reset() {
	t.name = [nameBufSize]byte{}
	t.nameLen = 0
	t.priority = 0
	t.flags = 0
	t.next = nil
	t.entry = nil
	t.argv = nil
	t.StackBase = 0
	t.StackSize = 0
}
