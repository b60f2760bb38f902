package index

import (
	"fmt"
	"io"
	"sort"
)

// SortKey selects the order of an encoded report.
type SortKey int

const (
	ByInstalled SortKey = iota
	ByDownload
	ByName
)

func ParseSortKey(s string) (SortKey, error) {
	switch s {
	case "installed":
		return ByInstalled, nil
	case "download":
		return ByDownload, nil
	case "name":
		return ByName, nil
	}
	return 0, fmt.Errorf("unknown sort key %q (want installed, download or name)", s)
}

// Sorted returns the packages of idx, largest first unless sorting by name.
// Ties are broken by key for a deterministic order.
func (idx Index) Sorted(by SortKey) []Package {
	pkgs := make([]Package, 0, len(idx))
	for _, pkg := range idx {
		pkgs = append(pkgs, pkg)
	}
	sort.Slice(pkgs, func(i, j int) bool {
		a, b := pkgs[i], pkgs[j]
		switch by {
		case ByInstalled:
			if a.Installed != b.Installed {
				return a.Installed > b.Installed
			}
		case ByDownload:
			if a.Download != b.Download {
				return a.Download > b.Download
			}
		}
		return a.Key() < b.Key()
	})
	return pkgs
}

// Encode writes one line per package to w:
//
//	<installed size>\t<download size>\t<key>\t<version>
//
// If limit is positive, at most limit packages are written.
func (idx Index) Encode(w io.Writer, by SortKey, limit int) error {
	pkgs := idx.Sorted(by)
	if limit > 0 && limit < len(pkgs) {
		pkgs = pkgs[:limit]
	}
	for _, pkg := range pkgs {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", pkg.Installed, pkg.Download, pkg.Key(), pkg.Version.String()); err != nil {
			return err
		}
	}
	return nil
}
