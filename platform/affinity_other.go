//go:build !linux

package platform

import "runtime"

// PinToCore locks the calling goroutine to its OS thread. Core binding is
// only implemented on Linux; elsewhere the OS scheduler keeps placement,
// which costs latency jitter but nothing else.
func PinToCore(_ int) error {
	runtime.LockOSThread()
	return nil
}
