// Package manifest reads and writes Parcel.toml manifests and Parcel.lock documents.
package manifest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ManifestService = (*Service)(nil)

// Service implements ports.ManifestService on top of go-toml.
type Service struct{}

// NewService creates a new Service.
func NewService() *Service {
	return &Service{}
}

// workspace is a discovered workspace root together with its [workspace] table.
type workspace struct {
	root string
	dto  *WorkspaceDTO
}

// Load reads the manifest at path and resolves workspace inheritance.
func (s *Service) Load(path string) (*domain.Package, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}

	doc, err := readDocument(abs)
	if err != nil {
		return nil, err
	}
	if doc.Package == nil {
		if doc.Workspace != nil {
			return nil, domain.ErrVirtualManifest
		}
		err := zerr.With(domain.ErrManifestInvalid, "missing_table", "package")
		return nil, zerr.With(err, "path", abs)
	}

	root := filepath.Dir(abs)
	ws, err := findWorkspace(root, doc)
	if err != nil {
		return nil, err
	}

	return buildPackage(abs, doc, ws)
}

// findWorkspace returns the workspace the package at root belongs to, or nil.
func findWorkspace(root string, doc *Document) (*workspace, error) {
	if doc.Workspace != nil {
		return &workspace{root: root, dto: doc.Workspace}, nil
	}

	currentDir := filepath.Dir(root)
	for {
		candidate := filepath.Join(currentDir, domain.ManifestFileName)
		if _, err := os.Stat(candidate); err == nil {
			parent, err := readDocument(candidate)
			if err != nil {
				return nil, err
			}
			if parent.Workspace != nil {
				if isMember(currentDir, root, parent.Workspace) {
					return &workspace{root: currentDir, dto: parent.Workspace}, nil
				}
				return nil, nil
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return nil, nil
		}
		currentDir = parentDir
	}
}

func isMember(wsRoot, pkgRoot string, ws *WorkspaceDTO) bool {
	rel, err := filepath.Rel(wsRoot, pkgRoot)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	matches := func(patterns []string) bool {
		for _, p := range patterns {
			if ok, _ := doublestar.Match(strings.TrimSuffix(filepath.ToSlash(p), "/"), rel); ok {
				return true
			}
		}
		return false
	}
	return matches(ws.Members) && !matches(ws.Exclude)
}

func buildPackage(path string, doc *Document, ws *workspace) (*domain.Package, error) {
	root := filepath.Dir(path)
	in := inheritor{ws: ws, path: path}
	dto := doc.Package

	if dto.Name == "" {
		return nil, zerr.With(zerr.With(domain.ErrManifestInvalid, "missing_field", "package.name"), "path", path)
	}

	pkg := &domain.Package{
		Name:          dto.Name,
		Root:          root,
		ManifestPath:  path,
		WorkspaceRoot: root,
		Include:       dto.Include,
		Exclude:       dto.Exclude,
		Features:      doc.Features,
	}
	if ws != nil {
		pkg.WorkspaceRoot = ws.root
	}

	var err error
	if pkg.Version, err = in.str("version", dto.Version); err != nil {
		return nil, err
	}
	if pkg.Version == "" {
		return nil, zerr.With(zerr.With(domain.ErrManifestInvalid, "missing_field", "package.version"), "path", path)
	}
	if _, err := semver.StrictNewVersion(pkg.Version); err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrManifestInvalid.Error()), "field", "package.version")
		return nil, zerr.With(err, "path", path)
	}

	if pkg.Metadata, err = buildMetadata(dto, in, root); err != nil {
		return nil, err
	}
	if pkg.Publish, err = in.publish(dto.Publish); err != nil {
		return nil, err
	}

	for _, table := range []struct {
		kind domain.DependencyKind
		deps map[string]any
	}{
		{domain.DependencyNormal, doc.Dependencies},
		{domain.DependencyBuild, doc.BuildDependencies},
		{domain.DependencyDev, doc.DevDependencies},
	} {
		deps, err := parseDependencies(table.deps, table.kind, root, in)
		if err != nil {
			return nil, err
		}
		pkg.Dependencies = append(pkg.Dependencies, deps...)
	}

	for _, bin := range doc.Bin {
		pkg.Binaries = append(pkg.Binaries, domain.Binary{Name: bin.Name, Path: bin.Path})
	}
	if doc.Build != nil {
		pkg.Build = domain.BuildSettings{Command: doc.Build.Command, Env: doc.Build.Env}
	}

	return pkg, nil
}

func buildMetadata(dto *PackageDTO, in inheritor, root string) (domain.Metadata, error) {
	var (
		md  domain.Metadata
		err error
	)
	for _, f := range []struct {
		field string
		value any
		dst   *string
	}{
		{"description", dto.Description, &md.Description},
		{"license", dto.License, &md.License},
		{"documentation", dto.Documentation, &md.Documentation},
		{"homepage", dto.Homepage, &md.Homepage},
		{"repository", dto.Repository, &md.Repository},
	} {
		if *f.dst, err = in.str(f.field, f.value); err != nil {
			return md, err
		}
	}

	for _, f := range []struct {
		field string
		value any
		dst   *string
	}{
		{"license-file", dto.LicenseFile, &md.LicenseFile},
		{"readme", dto.Readme, &md.Readme},
	} {
		if *f.dst, err = in.filePath(f.field, f.value, root); err != nil {
			return md, err
		}
	}

	for _, f := range []struct {
		field string
		value any
		dst   *[]string
	}{
		{"authors", dto.Authors, &md.Authors},
		{"keywords", dto.Keywords, &md.Keywords},
		{"categories", dto.Categories, &md.Categories},
	} {
		if *f.dst, err = in.strs(f.field, f.value); err != nil {
			return md, err
		}
	}

	return md, nil
}

func parseDependencies(
	table map[string]any, kind domain.DependencyKind, root string, in inheritor,
) ([]domain.Dependency, error) {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	slices.Sort(names)

	deps := make([]domain.Dependency, 0, len(names))
	for _, name := range names {
		dep, err := in.dependency(name, table[name], kind, root)
		if err != nil {
			return nil, zerr.With(err, "dependency", name)
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

// parseDependency decodes a dependency written as a requirement string or a table.
// Relative paths are joined onto baseDir.
func parseDependency(name string, value any, kind domain.DependencyKind, baseDir string) (domain.Dependency, error) {
	dep := domain.Dependency{Name: name, Kind: kind, Source: domain.SourceRegistry, DefaultFeatures: true}

	switch v := value.(type) {
	case string:
		dep.Requirement = v
	case map[string]any:
		var err error
		strField := func(key string) string {
			if err != nil {
				return ""
			}
			raw, ok := v[key]
			if !ok {
				return ""
			}
			s, ok := raw.(string)
			if !ok {
				err = zerr.With(domain.ErrManifestParseFailed, "field", key)
			}
			return s
		}

		dep.Requirement = strField("version")
		dep.Package = strField("package")
		dep.Registry = strField("registry")
		dep.Git = strField("git")
		dep.Rev = strField("rev")
		dep.Branch = strField("branch")
		dep.Tag = strField("tag")
		path := strField("path")
		if err != nil {
			return dep, err
		}

		if dep.Features, err = toStrings("features", v["features"]); err != nil {
			return dep, err
		}
		if optional, ok := v["optional"].(bool); ok {
			dep.Optional = optional
		}
		if df, ok := v["default-features"].(bool); ok {
			dep.DefaultFeatures = df
		}

		switch {
		case path != "":
			dep.Source = domain.SourcePath
			dep.Path = filepath.Clean(filepath.Join(baseDir, filepath.FromSlash(path)))
		case dep.Git != "":
			dep.Source = domain.SourceGit
		}
	default:
		return dep, zerr.With(domain.ErrManifestParseFailed, "field", name)
	}

	if dep.SpecifiedRequirement() {
		if _, err := domain.ParseRequirement(dep.Requirement); err != nil {
			return dep, err
		}
	}
	return dep, nil
}

// inheritor resolves { workspace = true } values against the enclosing workspace.
type inheritor struct {
	ws   *workspace
	path string
}

func (in inheritor) inheritanceError(field string) error {
	return zerr.With(zerr.With(domain.ErrWorkspaceInheritance, "field", field), "path", in.path)
}

// value returns v, or the workspace value when v asks for inheritance.
func (in inheritor) value(field string, v any) (any, bool, error) {
	table, ok := v.(map[string]any)
	if !ok {
		return v, false, nil
	}
	if inherit, _ := table["workspace"].(bool); !inherit {
		return nil, false, zerr.With(zerr.With(domain.ErrManifestParseFailed, "field", field), "path", in.path)
	}
	if in.ws == nil {
		return nil, false, in.inheritanceError(field)
	}
	inherited, ok := in.ws.dto.Package[field]
	if !ok {
		return nil, false, in.inheritanceError(field)
	}
	return inherited, true, nil
}

func (in inheritor) str(field string, v any) (string, error) {
	resolved, _, err := in.value(field, v)
	if err != nil || resolved == nil {
		return "", err
	}
	s, ok := resolved.(string)
	if !ok {
		return "", zerr.With(zerr.With(domain.ErrManifestParseFailed, "field", field), "path", in.path)
	}
	return s, nil
}

func (in inheritor) strs(field string, v any) ([]string, error) {
	resolved, _, err := in.value(field, v)
	if err != nil {
		return nil, err
	}
	out, err := toStrings(field, resolved)
	if err != nil {
		return nil, zerr.With(err, "path", in.path)
	}
	return out, nil
}

// filePath resolves a file path field. Inherited paths are relative to the workspace root
// and are rebased onto root.
func (in inheritor) filePath(field string, v any, root string) (string, error) {
	resolved, inherited, err := in.value(field, v)
	if err != nil || resolved == nil {
		return "", err
	}
	s, ok := resolved.(string)
	if !ok {
		return "", zerr.With(zerr.With(domain.ErrManifestParseFailed, "field", field), "path", in.path)
	}
	if !inherited {
		return s, nil
	}
	rel, err := filepath.Rel(root, filepath.Join(in.ws.root, filepath.FromSlash(s)))
	if err != nil {
		return "", in.inheritanceError(field)
	}
	return filepath.ToSlash(rel), nil
}

func (in inheritor) publish(v any) ([]string, error) {
	resolved, _, err := in.value("publish", v)
	if err != nil {
		return nil, err
	}
	switch p := resolved.(type) {
	case nil:
		return nil, nil
	case bool:
		if p {
			return nil, nil
		}
		return []string{}, nil
	default:
		return toStrings("publish", p)
	}
}

func (in inheritor) dependency(
	name string, value any, kind domain.DependencyKind, root string,
) (domain.Dependency, error) {
	table, ok := value.(map[string]any)
	if inherit, _ := table["workspace"].(bool); !ok || !inherit {
		return parseDependency(name, value, kind, root)
	}

	if in.ws == nil {
		return domain.Dependency{}, in.inheritanceError("dependencies." + name)
	}
	base, ok := in.ws.dto.Dependencies[name]
	if !ok {
		return domain.Dependency{}, in.inheritanceError("dependencies." + name)
	}
	dep, err := parseDependency(name, base, kind, in.ws.root)
	if err != nil {
		return dep, err
	}

	features, err := toStrings("features", table["features"])
	if err != nil {
		return dep, err
	}
	for _, f := range features {
		if !slices.Contains(dep.Features, f) {
			dep.Features = append(dep.Features, f)
		}
	}
	if optional, ok := table["optional"].(bool); ok {
		dep.Optional = optional
	}
	return dep, nil
}

func toStrings(field string, v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, zerr.With(domain.ErrManifestParseFailed, "field", field)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, zerr.With(domain.ErrManifestParseFailed, "field", field)
		}
		out = append(out, s)
	}
	return out, nil
}

// readDocument reads and decodes the manifest at path.
func readDocument(path string) (*Document, error) {
	// #nosec G304 -- path is validated by caller
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrManifestNotFound, "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}

	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "path", path)
	}
	return &doc, nil
}
