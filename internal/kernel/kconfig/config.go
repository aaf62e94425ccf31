// Package kconfig collects the compile-time sizing constants of the
// kernel into one overridable value instead of bare package constants,
// so more than one kernel instance (and more than one size) can live in
// the same test binary.
package kconfig

import "fmt"

// Config bounds every fixed-size kernel structure: the thread pool, the
// priority levels, the mailbox table, the size-class heap and the
// region stacks are carved from.
type Config struct {
	// ThreadNum is the number of thread control block slots.
	ThreadNum int
	// PriorityNum is the number of ready-queue priority levels; 0 is
	// highest and runs with interrupts masked.
	PriorityNum int
	// ThreadNameSize bounds a thread's printable name, not counting the
	// trailing NUL a C implementation would need.
	ThreadNameSize int
	// MsgboxNum is the number of mailboxes.
	MsgboxNum int
	// HeapClasses lists the block size, in bytes, of each allocator
	// size class. Must be strictly increasing.
	HeapClasses []int
	// HeapClassCount is how many blocks each size class is pre-carved
	// into.
	HeapClassCount int
	// StackRegionSize is the total byte size of the arena thread stacks
	// are bump-allocated from. Never reclaimed.
	StackRegionSize int
}

// Default returns the sizing used by the scenarios in spec.md: a small
// thread pool, 16 priority levels (matching the original kozos board),
// and three heap classes large enough to hold a mailbox message
// descriptor plus small payloads.
func Default() Config {
	return Config{
		ThreadNum:       16,
		PriorityNum:     16,
		ThreadNameSize:  15,
		MsgboxNum:       4,
		HeapClasses:     []int{16, 32, 64},
		HeapClassCount:  16,
		StackRegionSize: 1 << 20,
	}
}

// Validate reports the first structural problem found in cfg, if any.
func (cfg Config) Validate() error {
	if cfg.ThreadNum <= 0 {
		return fmt.Errorf("kconfig: ThreadNum must be positive, got %d", cfg.ThreadNum)
	}
	if cfg.PriorityNum <= 0 {
		return fmt.Errorf("kconfig: PriorityNum must be positive, got %d", cfg.PriorityNum)
	}
	if cfg.ThreadNameSize <= 0 {
		return fmt.Errorf("kconfig: ThreadNameSize must be positive, got %d", cfg.ThreadNameSize)
	}
	if cfg.MsgboxNum <= 0 {
		return fmt.Errorf("kconfig: MsgboxNum must be positive, got %d", cfg.MsgboxNum)
	}
	if len(cfg.HeapClasses) == 0 {
		return fmt.Errorf("kconfig: HeapClasses must not be empty")
	}
	for i := 1; i < len(cfg.HeapClasses); i++ {
		if cfg.HeapClasses[i] <= cfg.HeapClasses[i-1] {
			return fmt.Errorf("kconfig: HeapClasses must be strictly increasing, got %v", cfg.HeapClasses)
		}
	}
	if cfg.HeapClassCount <= 0 {
		return fmt.Errorf("kconfig: HeapClassCount must be positive, got %d", cfg.HeapClassCount)
	}
	if cfg.StackRegionSize <= 0 {
		return fmt.Errorf("kconfig: StackRegionSize must be positive, got %d", cfg.StackRegionSize)
	}
	return nil
}
