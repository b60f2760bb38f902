// Package index reads Debian Packages indexes and tallies the download and
// installed sizes of the packages they describe.
package index

import (
	"fmt"
	"io"
	"math"

	"github.com/Debian/bytesize/internal/humanbytes"

	"pault.ag/go/debian/control"
	"pault.ag/go/debian/version"
)

// Sizes describes how much space a package takes.
type Sizes struct {
	Download  humanbytes.ByteSize // size of the .deb
	Installed humanbytes.ByteSize // Installed-Size, which dpkg records in KiB
}

// add sums s and o, saturating instead of wrapping around.
func (s Sizes) add(o Sizes) Sizes {
	return Sizes{
		Download:  satAdd(s.Download, o.Download),
		Installed: satAdd(s.Installed, o.Installed),
	}
}

func satAdd(a, b humanbytes.ByteSize) humanbytes.ByteSize {
	if sum := a + b; sum >= a {
		return sum
	}
	return math.MaxUint64
}

type Package struct {
	Name         string
	Architecture string
	Version      version.Version
	Sizes
}

// Key identifies p within an Index. Architecture-independent packages are
// keyed by name alone.
func (p Package) Key() string {
	if p.Architecture == "" || p.Architecture == "all" {
		return p.Name
	}
	return p.Name + ":" + p.Architecture
}

// Index maps Package.Key to the newest version of that package.
type Index map[string]Package

// paragraph contains precisely the fields we are interested in, which is
// cheaper to decode than control.BinaryIndex.
type paragraph struct {
	Package       string
	Version       version.Version
	Architecture  string
	Size          string
	InstalledSize string `control:"Installed-Size"`
}

// Parse reads a Packages (or dpkg status) file.
func Parse(r io.Reader) (Index, error) {
	var paras []paragraph
	if err := control.Unmarshal(&paras, r); err != nil {
		return nil, err
	}
	idx := make(Index, len(paras))
	for _, para := range paras {
		if para.Package == "" {
			continue // not a package stanza
		}
		pkg := Package{
			Name:         para.Package,
			Architecture: para.Architecture,
			Version:      para.Version,
		}
		if para.Size != "" {
			v, err := humanbytes.Parse(para.Size)
			if err != nil {
				return nil, fmt.Errorf("package %s: invalid Size: %v", para.Package, err)
			}
			pkg.Download = v
		}
		if para.InstalledSize != "" {
			v, err := humanbytes.Parse(para.InstalledSize + "Ki")
			if err != nil {
				return nil, fmt.Errorf("package %s: invalid Installed-Size: %v", para.Package, err)
			}
			pkg.Installed = v
		}
		idx.add(pkg)
	}
	return idx, nil
}

func (idx Index) add(pkg Package) {
	key := pkg.Key()
	if existing, ok := idx[key]; !ok || version.Compare(pkg.Version, existing.Version) > 0 {
		idx[key] = pkg
	}
}

// Merge adds the packages of other to idx. When both contain a package, the
// higher version wins.
func (idx Index) Merge(other Index) {
	for _, pkg := range other {
		idx.add(pkg)
	}
}

// Filter returns the packages whose installed size is at least min.
func (idx Index) Filter(min humanbytes.ByteSize) Index {
	filtered := make(Index, len(idx))
	for key, pkg := range idx {
		if pkg.Installed >= min {
			filtered[key] = pkg
		}
	}
	return filtered
}

// Totals sums the sizes of all packages in idx.
func (idx Index) Totals() Sizes {
	var total Sizes
	for _, pkg := range idx {
		total = total.add(pkg.Sizes)
	}
	return total
}
