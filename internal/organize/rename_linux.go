//go:build linux

package organize

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// renameNoReplace moves src to dest and fails with os.ErrExist instead of
// replacing a destination that appeared after the collision check.
func renameNoReplace(src, dest string) error {
	err := unix.Renameat2(unix.AT_FDCWD, src, unix.AT_FDCWD, dest, unix.RENAME_NOREPLACE)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.EEXIST):
		return &os.LinkError{Op: "rename", Old: src, New: dest, Err: os.ErrExist}
	case errors.Is(err, unix.ENOSYS), errors.Is(err, unix.EINVAL):
		// Kernel or filesystem without RENAME_NOREPLACE
		return os.Rename(src, dest)
	default:
		return &os.LinkError{Op: "rename", Old: src, New: dest, Err: err}
	}
}
