//go:build linux

package platform

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// PinToCore locks the calling goroutine to its OS thread and binds that
// thread to the given logical CPU. The caller keeps the thread for its
// whole lifetime; there is no matching unpin.
func PinToCore(core int) error {
	runtime.LockOSThread()

	var set unix.CPUSet
	set.Zero()
	set.Set(core)

	// tid 0 targets the calling thread.
	return unix.SchedSetaffinity(0, &set)
}
