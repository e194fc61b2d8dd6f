package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/parcel/internal/core/domain"
)

func TestReportDifference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		before domain.Fingerprint
		after  domain.Fingerprint
		want   string
	}{
		{
			name:   "changed and added",
			before: domain.Fingerprint{"a": 1, "b": 2},
			after:  domain.Fingerprint{"a": 1, "b": 3, "c": 4},
			want:   "Changed: b\nAdded: c",
		},
		{
			name:   "removed only",
			before: domain.Fingerprint{"a": 1, "b": 2},
			after:  domain.Fingerprint{"a": 1},
			want:   "Removed: b",
		},
		{
			name:   "multiple paths are sorted and indented",
			before: domain.Fingerprint{"z": 1, "m": 1, "x": 9},
			after:  domain.Fingerprint{"z": 2, "m": 2, "d": 1, "c": 1},
			want:   "Changed: m\n\tz\nAdded: c\n\td\nRemoved: x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.False(t, tt.before.Equal(tt.after))
			assert.Equal(t, tt.want, domain.ReportDifference(tt.before, tt.after))
		})
	}
}

func TestReportDifference_PanicsWithoutChanges(t *testing.T) {
	t.Parallel()

	fp := domain.Fingerprint{"a": 1}
	assert.True(t, fp.Equal(domain.Fingerprint{"a": 1}))
	assert.Panics(t, func() {
		_ = domain.ReportDifference(fp, domain.Fingerprint{"a": 1})
	})
}

func TestVcsInfoJSON(t *testing.T) {
	t.Parallel()

	got := domain.VcsInfoJSON("0123abcd")
	assert.Equal(t, "{\n  \"git\": {\n    \"sha1\": \"0123abcd\"\n  }\n}\n", got)
}

func TestSortEntries(t *testing.T) {
	t.Parallel()

	entries := []domain.ArchiveEntry{
		{RelPath: "src/main.go"},
		{RelPath: "Parcel.toml"},
		{RelPath: "README.md"},
		{RelPath: "Parcel.toml.orig"},
	}
	domain.SortEntries(entries)

	got := make([]string, len(entries))
	for i, e := range entries {
		got[i] = e.RelPath
	}
	assert.Equal(t, []string{"Parcel.toml", "Parcel.toml.orig", "README.md", "src/main.go"}, got)
}

func TestResolveGraph(t *testing.T) {
	t.Parallel()

	reg := domain.RegistrySource("https://index.parcel.dev")
	a := domain.PackageID{Name: "a", Version: "1.0.0", Source: reg}
	b9 := domain.PackageID{Name: "b", Version: "0.9.0", Source: reg}
	b10 := domain.PackageID{Name: "b", Version: "0.10.0", Source: reg}
	root := domain.PackageID{Name: "app", Version: "0.1.0"}

	g := domain.NewResolveGraph([]domain.ResolvedPackage{
		{ID: b10},
		{ID: root, Dependencies: []domain.PackageID{b10, a}},
		{ID: a, Dependencies: []domain.PackageID{b9}},
		{ID: b9},
		{ID: root, Dependencies: []domain.PackageID{a}},
	})

	assert.Equal(t, []domain.PackageID{a, root, b9, b10}, g.IDs())

	node, ok := g.Lookup(root)
	assert.True(t, ok)
	assert.Equal(t, []domain.PackageID{a, b10}, node.Dependencies)

	_, ok = g.Lookup(domain.PackageID{Name: "missing", Version: "1.0.0"})
	assert.False(t, ok)

	assert.Len(t, g.FindByName("b"), 2)

	old := domain.NewResolveGraph([]domain.ResolvedPackage{{ID: a}, {ID: b9}})
	assert.Equal(t, []domain.PackageID{root, b10}, domain.Difference(g, old))
	assert.Empty(t, domain.Difference(old, g))
}

func TestPackageID_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a v1.0.0", domain.PackageID{Name: "a", Version: "1.0.0"}.String())
	assert.Equal(t, "a v1.0.0", domain.PackageID{
		Name: "a", Version: "1.0.0", Source: domain.RegistrySource("https://index.parcel.dev"),
	}.String())
	assert.Equal(t, "a v1.0.0 (git+https://example.com/a#abc)", domain.PackageID{
		Name: "a", Version: "1.0.0", Source: domain.GitSource("https://example.com/a", "abc"),
	}.String())
	assert.Equal(t, "index.parcel.dev", domain.RegistryDisplayName(domain.RegistrySource("https://index.parcel.dev")))
	assert.Equal(t, "path", domain.DisplaySource(""))
}

func TestPackage_IncludeLockfile(t *testing.T) {
	t.Parallel()

	lib := &domain.Package{Name: "lib"}
	assert.False(t, lib.IncludeLockfile())

	bin := &domain.Package{Name: "tool", Binaries: []domain.Binary{{Name: "tool"}}}
	assert.True(t, bin.IncludeLockfile())
}
