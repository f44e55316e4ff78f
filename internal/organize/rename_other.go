//go:build !linux

package organize

import "os"

func renameNoReplace(src, dest string) error {
	return os.Rename(src, dest)
}
