//go:build unix

package pageio

import (
	"golang.org/x/sys/unix"
)

// lockExclusive takes an advisory, non-blocking exclusive lock on f. Spec
// §5 leaves locking unspecified but recommends it as "a sensible
// implementation"; a second process opening the same table files should
// fail fast rather than silently corrupt the page cache.
func lockExclusive(f interface{ Fd() uintptr }) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
}

func unlock(f interface{ Fd() uintptr }) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}

// LockExclusive takes an advisory, non-blocking exclusive lock on f. It is
// exported so callers outside this package (the metadata handler's file)
// can follow the same locking policy without duplicating the syscall.
func LockExclusive(f interface{ Fd() uintptr }) error { return lockExclusive(f) }

// Unlock releases a lock taken with LockExclusive.
func Unlock(f interface{ Fd() uintptr }) error { return unlock(f) }
