//go:build unix || darwin || linux || freebsd || openbsd || netbsd

// internal/env/lock_unix.go
//
// Grounded on the build-tag split in
// _examples/mjm918-tur/pkg/pager/mmap_unix.go / mmap_windows.go: platform
// syscalls live behind a tiny interface, selected at compile time rather
// than runtime, so neither side drags in the other's dependency.
package env

import (
	"os"

	"golang.org/x/sys/unix"
)

// fileLocker releases an advisory lock taken when an environment file
// was opened.
type fileLocker interface {
	unlock() error
}

type unixLocker struct {
	fd int
}

func (l unixLocker) unlock() error {
	return unix.Flock(l.fd, unix.LOCK_UN)
}

// lockFile takes an exclusive, non-blocking advisory lock on f. This
// enforces single-writer discipline on the backing file itself,
// independent of the in-process single-threading the core engine
// already assumes.
func lockFile(f *os.File) (fileLocker, error) {
	fd := int(f.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return nil, err
	}
	return unixLocker{fd: fd}, nil
}
