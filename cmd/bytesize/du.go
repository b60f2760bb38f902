package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/Debian/bytesize/internal/humanbytes"
	"golang.org/x/sync/errgroup"
)

// dirSizes sums the sizes of the regular files below each of dirs.
func dirSizes(dirs []string) ([]humanbytes.ByteSize, error) {
	var eg errgroup.Group
	sums := make([]humanbytes.ByteSize, len(dirs))
	for idx, dir := range dirs {
		idx, dir := idx, dir // copy
		eg.Go(func() error {
			var sum humanbytes.ByteSize
			err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.Mode().IsRegular() {
					sum += humanbytes.ByteSize(info.Size())
				}
				return nil
			})
			sums[idx] = sum
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return sums, nil
}

type overLimitError struct {
	total, limit humanbytes.ByteSize
}

func (e *overLimitError) Error() string {
	return fmt.Sprintf("disk usage %s exceeds the limit of %s", e.total, e.limit)
}

func (i *invocation) diskUsage(w io.Writer, dirs []string) error {
	sums, err := dirSizes(dirs)
	if err != nil {
		return err
	}
	var total humanbytes.ByteSize
	for idx, sum := range sums {
		i.V().Printf("%s: %d bytes", dirs[idx], uint64(sum))
		if _, err := fmt.Fprintf(w, "%s\t%s\n", sum, dirs[idx]); err != nil {
			return err
		}
		if total+sum < total {
			total = math.MaxUint64
		} else {
			total += sum
		}
	}
	if len(dirs) > 1 {
		if _, err := fmt.Fprintf(w, "%s\ttotal\n", total); err != nil {
			return err
		}
	}
	if i.diskUsageLimit == 0 {
		return nil
	}
	if total > i.diskUsageLimit {
		return &overLimitError{total: total, limit: i.diskUsageLimit}
	}
	i.V().Printf("below the limit of %s", i.diskUsageLimit)
	return nil
}
