// Binary debsize reports the download and installed sizes of the packages
// listed in Debian Packages indexes.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Debian/bytesize/internal/humanbytes"
	"github.com/Debian/bytesize/internal/index"
	"github.com/Debian/bytesize/internal/write"
	"golang.org/x/sync/errgroup"
)

var (
	sortBy = flag.String("sort",
		"installed",
		"Order of the report: installed, download or name")

	limit = flag.Int("n",
		0,
		"Print at most this many packages (0 means all)")

	output = flag.String("o",
		"",
		"Write the report to this file instead of stdout")

	verbose = flag.Bool("verbose",
		false,
		"Whether to print messages to stderr")

	minSize humanbytes.ByteSize
)

func init() {
	flag.Var(&minSize, "min", "Omit packages whose installed size is below this size, e.g. 10MB")
}

func parseFile(name string, stdin io.Reader) (index.Index, error) {
	if name == "-" {
		return index.Parse(bufio.NewReader(stdin))
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return index.Parse(bufio.NewReader(f))
}

// parseFiles parses all files concurrently and merges the result, keeping
// the newest version of every package.
func parseFiles(names []string, stdin io.Reader) (index.Index, error) {
	indices := make([]index.Index, len(names))
	var eg errgroup.Group
	for idx, name := range names {
		idx, name := idx, name // copy
		eg.Go(func() error {
			pkgs, err := parseFile(name, stdin)
			if err != nil {
				return fmt.Errorf("%s: %v", name, err)
			}
			if *verbose {
				log.Printf("%s: %d packages", name, len(pkgs))
			}
			indices[idx] = pkgs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	merged := make(index.Index)
	for _, pkgs := range indices {
		merged.Merge(pkgs)
	}
	return merged, nil
}

func report(w io.Writer, idx index.Index, by index.SortKey, limit int) error {
	if err := idx.Encode(w, by, limit); err != nil {
		return err
	}
	total := idx.Totals()
	_, err := fmt.Fprintf(w, "%s\t%s\ttotal (%d packages)\n", total.Installed, total.Download, len(idx))
	return err
}

func main() {
	flag.Parse()

	by, err := index.ParseSortKey(*sortBy)
	if err != nil {
		log.Fatal(err)
	}
	names := flag.Args()
	if len(names) == 0 {
		names = []string{"-"}
	}

	idx, err := parseFiles(names, os.Stdin)
	if err != nil {
		log.Fatal(err)
	}
	if minSize > 0 {
		idx = idx.Filter(minSize)
	}

	fn := func(w io.Writer) error { return report(w, idx, by, *limit) }
	if *output != "" {
		err = write.Atomically(*output, fn)
	} else {
		bufw := bufio.NewWriter(os.Stdout)
		if err = fn(bufw); err == nil {
			err = bufw.Flush()
		}
	}
	if err != nil {
		log.Fatal(err)
	}
}
