// Package write replaces report files without exposing partial contents.
package write

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
)

func tempDir(dest string) string {
	if tempdir := os.Getenv("TMPDIR"); tempdir != "" {
		return tempdir
	}
	// Same directory as dest, so that the final rename does not cross file
	// systems.
	return filepath.Dir(dest)
}

// Atomically calls write with a buffered temporary file and, if write
// succeeds, renames that file to dest. On any error dest is left untouched
// and the temporary file is removed.
func Atomically(dest string, write func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(tempDir(dest), "."+filepath.Base(dest)+"-")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	bufw := bufio.NewWriter(f)
	if err := write(bufw); err != nil {
		return err
	}
	if err := bufw.Flush(); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	if err := f.Chmod(0644); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), dest)
}
