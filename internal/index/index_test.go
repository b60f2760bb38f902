package index

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Debian/bytesize/internal/humanbytes"
	"github.com/google/go-cmp/cmp"
)

const packages = `Package: hello
Version: 2.10-2
Architecture: amd64
Installed-Size: 280
Size: 56132

Package: hello
Version: 2.10-3
Architecture: amd64
Installed-Size: 281
Size: 56200

Package: hello
Version: 2.10-3
Architecture: arm64
Installed-Size: 300
Size: 57000

Package: tzdata
Version: 2024a-1
Architecture: all
Installed-Size: 3400
Size: 255000
`

func mustParse(t *testing.T, s string) Index {
	t.Helper()
	idx, err := Parse(strings.NewReader(s))
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

type summary struct {
	Version   string
	Download  humanbytes.ByteSize
	Installed humanbytes.ByteSize
}

func summarize(idx Index) map[string]summary {
	m := make(map[string]summary, len(idx))
	for key, pkg := range idx {
		m[key] = summary{
			Version:   pkg.Version.String(),
			Download:  pkg.Download,
			Installed: pkg.Installed,
		}
	}
	return m
}

func TestParse(t *testing.T) {
	t.Parallel()

	idx := mustParse(t, packages)
	want := map[string]summary{
		"hello:amd64": {"2.10-3", 56200, 281 * humanbytes.KiB},
		"hello:arm64": {"2.10-3", 57000, 300 * humanbytes.KiB},
		"tzdata":      {"2024a-1", 255000, 3400 * humanbytes.KiB},
	}
	if diff := cmp.Diff(want, summarize(idx)); diff != "" {
		t.Fatalf("unexpected index: diff (-want +got):\n%s", diff)
	}
}

func TestParseInvalidSize(t *testing.T) {
	t.Parallel()

	for _, entry := range []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Size",
			input: "Package: broken\nVersion: 1.0\nSize: 12x\n",
			want:  "package broken: invalid Size",
		},
		{
			name:  "InstalledSize",
			input: "Package: broken\nVersion: 1.0\nInstalled-Size: 1.2.3\n",
			want:  "package broken: invalid Installed-Size",
		},
	} {
		entry := entry // copy
		t.Run(entry.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(strings.NewReader(entry.input))
			if err == nil || !strings.Contains(err.Error(), entry.want) {
				t.Fatalf("Parse: got error %v, want error containing %q", err, entry.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	idx := mustParse(t, packages)
	idx.Merge(mustParse(t, `Package: hello
Version: 2.10-1
Architecture: amd64
Installed-Size: 1
Size: 1

Package: tzdata
Version: 2024b-1
Architecture: all
Installed-Size: 3500
Size: 256000
`))
	got := summarize(idx)
	if got, want := got["hello:amd64"].Version, "2.10-3"; got != want {
		t.Errorf("older version replaced newer one: got %s, want %s", got, want)
	}
	if got, want := got["tzdata"].Version, "2024b-1"; got != want {
		t.Errorf("newer version not merged: got %s, want %s", got, want)
	}
}

func TestTotals(t *testing.T) {
	t.Parallel()

	got := mustParse(t, packages).Totals()
	want := Sizes{
		Download:  56200 + 57000 + 255000,
		Installed: (281 + 300 + 3400) * humanbytes.KiB,
	}
	if got != want {
		t.Fatalf("unexpected totals: got %+v, want %+v", got, want)
	}

	huge := Index{
		"a": {Name: "a", Sizes: Sizes{Download: 1 << 63}},
		"b": {Name: "b", Sizes: Sizes{Download: 1 << 63}},
	}
	if got, want := huge.Totals().Download, humanbytes.ByteSize(1<<64-1); got != want {
		t.Fatalf("totals wrapped around: got %d, want %d", got, want)
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	idx := mustParse(t, packages)
	for _, entry := range []struct {
		name  string
		by    SortKey
		limit int
		want  string
	}{
		{
			name: "Installed",
			by:   ByInstalled,
			want: "3.48 MB\t255 kB\ttzdata\t2024a-1\n" +
				"307 kB\t57.0 kB\thello:arm64\t2.10-3\n" +
				"288 kB\t56.2 kB\thello:amd64\t2.10-3\n",
		},
		{
			name: "Name",
			by:   ByName,
			want: "288 kB\t56.2 kB\thello:amd64\t2.10-3\n" +
				"307 kB\t57.0 kB\thello:arm64\t2.10-3\n" +
				"3.48 MB\t255 kB\ttzdata\t2024a-1\n",
		},
		{
			name:  "DownloadLimit",
			by:    ByDownload,
			limit: 2,
			want: "3.48 MB\t255 kB\ttzdata\t2024a-1\n" +
				"307 kB\t57.0 kB\thello:arm64\t2.10-3\n",
		},
	} {
		entry := entry // copy
		t.Run(entry.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := idx.Encode(&buf, entry.by, entry.limit); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(entry.want, buf.String()); diff != "" {
				t.Fatalf("unexpected report: diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	got := mustParse(t, packages).Filter(300 * humanbytes.KiB)
	if _, ok := got["hello:amd64"]; ok {
		t.Errorf("hello:amd64 (281 KiB) not filtered")
	}
	if len(got) != 2 {
		t.Errorf("unexpected number of packages: got %d, want 2", len(got))
	}
}

func TestParseSortKey(t *testing.T) {
	t.Parallel()

	for s, want := range map[string]SortKey{
		"installed": ByInstalled,
		"download":  ByDownload,
		"name":      ByName,
	} {
		got, err := ParseSortKey(s)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("ParseSortKey(%q) = %v, want %v", s, got, want)
		}
	}
	if _, err := ParseSortKey("size"); err == nil {
		t.Errorf("ParseSortKey(%q) unexpectedly succeeded", "size")
	}
}
