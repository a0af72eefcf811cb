//go:build windows

// internal/env/lock_windows.go
package env

import "os"

// fileLocker releases an advisory lock taken when an environment file
// was opened.
type fileLocker interface {
	unlock() error
}

type noopLocker struct{}

func (noopLocker) unlock() error { return nil }

// lockFile is a no-op placeholder on windows, matching
// _examples/mjm918-tur/pkg/pager/mmap_windows.go's counterpart shape: no
// advisory-lock syscall is wired here, so nothing is taken or released.
func lockFile(f *os.File) (fileLocker, error) {
	return noopLocker{}, nil
}
