package scenario

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/kozos-go/kozos/internal/kernel"
	"github.com/kozos-go/kozos/internal/kernel/kapi"
)

// mailboxID is the single mailbox both rendezvous scenarios use.
const mailboxID = 0

const (
	receiverPriority = 1
	senderPriority   = 2
)

// staticMessage is spec.md §8 scenario 3's literal payload: a string
// whose backing array outlives the call (package-level data), so the
// pointer handed across threads stays valid without an allocation.
var staticMessage = []byte("static memory\n")

// bootMailboxRecvFirst is spec.md §8 scenario 3: the receiver is
// created first (by an idle-priority boot thread, so it runs and
// blocks in Recv before the sender even exists), then the sender is
// created and sends; delivery happens synchronously inside the send
// syscall, waking the blocked receiver, which then preempts the
// sender (higher priority) and reads sender=T_s, size=14, p pointing
// at the literal. The sender resumes afterwards and reaches its own
// exit, exactly as documented.
func bootMailboxRecvFirst(k *kernel.Kernel) (kernel.EntryFunc, string, int, int, []string) {
	entry := func(c kernel.Caller, argv []string) {
		kapi.Run(c, mailboxReceiver, "t_r", receiverPriority, stackSize, nil)
		kapi.Run(c, mailboxSenderStatic, "t_s", senderPriority, stackSize, nil)
		idleDone(c)
	}
	return entry, "idle", idlePriority, stackSize, nil
}

func mailboxReceiver(c kernel.Caller, argv []string) {
	sender, size, payload := kapi.Recv(c, mailboxID)
	msg := unsafe.Slice((*byte)(payload), size)
	fmt.Printf("recv from %d, %d bytes: %s", sender, size, string(msg))
	kapi.Exit(c)
}

func mailboxSenderStatic(c kernel.Caller, argv []string) {
	kapi.Send(c, mailboxID, len(staticMessage), unsafe.Pointer(&staticMessage[0]))
	kapi.Exit(c)
}

// bootMailboxSendFirst is spec.md §8 scenario 4: the sender is created
// first (again from an idle-priority boot thread) and completes its
// send — the message simply waits in the mailbox's FIFO, since no
// receiver is blocked yet — before the receiver is created. The
// receiver's later Recv call is satisfied immediately from the queued
// descriptor, then frees the kmalloc'd payload back to its size
// class.
func bootMailboxSendFirst(k *kernel.Kernel) (kernel.EntryFunc, string, int, int, []string) {
	entry := func(c kernel.Caller, argv []string) {
		kapi.Run(c, mailboxSenderAllocated, "t_s", senderPriority, stackSize, nil)
		kapi.Run(c, mailboxReceiverFreeing, "t_r", receiverPriority, stackSize, nil)
		idleDone(c)
	}
	return entry, "idle", idlePriority, stackSize, nil
}

// allocatedMessageSize is spec.md §8 scenario 4's literal size (18),
// one byte past len("allocated memory\n") — the original kozos source
// sizes this kmalloc to include the C string's trailing NUL, which Go
// strings have no use for but the size this scenario must report
// does.
const allocatedMessageSize = 18

func mailboxSenderAllocated(c kernel.Caller, argv []string) {
	msg := "allocated memory\n"
	buf := kapi.KMalloc(c, allocatedMessageSize)
	copy(buf, msg)
	kapi.Send(c, mailboxID, len(buf), unsafe.Pointer(&buf[0]))
	kapi.Exit(c)
}

func mailboxReceiverFreeing(c kernel.Caller, argv []string) {
	sender, size, payload := kapi.Recv(c, mailboxID)
	buf := unsafe.Slice((*byte)(payload), size)
	text := strings.TrimRight(string(buf), "\x00")
	fmt.Printf("recv from %d, %d bytes: %s", sender, size, text)
	kapi.KMFree(c, buf)
	kapi.Exit(c)
}
