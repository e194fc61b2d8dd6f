package manifest

import (
	"bytes"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/zerr"
)

const manifestHeader = `# THIS FILE IS AUTOMATICALLY GENERATED BY PARCEL
#
# When uploading packages to the registry parcel normalizes Parcel.toml:
# workspace values are inlined, version requirements are made explicit and
# path or git locations are removed. The original manifest is kept next to
# this file as Parcel.toml.orig.

`

// PrepareForPublish returns a copy of pkg as consumers of the archive will see it.
func (s *Service) PrepareForPublish(pkg *domain.Package) (*domain.Package, error) {
	published := *pkg
	published.Dependencies = make([]domain.Dependency, 0, len(pkg.Dependencies))

	for _, dep := range pkg.Dependencies {
		if dep.Kind == domain.DependencyDev && !dep.SpecifiedRequirement() {
			continue
		}
		if dep.SpecifiedRequirement() {
			if _, err := domain.ParseRequirement(dep.Requirement); err != nil {
				return nil, zerr.With(err, "dependency", dep.Name)
			}
			dep.Requirement = domain.NormalizeRequirement(dep.Requirement)
		}
		if dep.Source != domain.SourceRegistry {
			dep.Source = domain.SourceRegistry
			dep.Path = ""
			dep.Git, dep.Rev, dep.Branch, dep.Tag = "", "", "", ""
		}
		dep.Features = slices.Clone(dep.Features)
		published.Dependencies = append(published.Dependencies, dep)
	}

	if lf := published.Metadata.LicenseFile; lf != "" && !filepath.IsLocal(filepath.FromSlash(lf)) {
		// The archive list copies an outside license file to the package root.
		published.Metadata.LicenseFile = filepath.Base(filepath.FromSlash(lf))
	}

	return &published, nil
}

// RewriteForDistribution renders the normalized manifest placed in the archive.
func (s *Service) RewriteForDistribution(pkg *domain.Package) (string, error) {
	published, err := s.PrepareForPublish(pkg)
	if err != nil {
		return "", err
	}

	doc := publishedManifest{
		Package: publishedPackage{
			Name:          published.Name,
			Version:       published.Version,
			Description:   published.Metadata.Description,
			License:       published.Metadata.License,
			LicenseFile:   published.Metadata.LicenseFile,
			Documentation: published.Metadata.Documentation,
			Homepage:      published.Metadata.Homepage,
			Repository:    published.Metadata.Repository,
			Readme:        published.Metadata.Readme,
			Authors:       published.Metadata.Authors,
			Keywords:      published.Metadata.Keywords,
			Categories:    published.Metadata.Categories,
			Publish:       published.Publish,
			Include:       published.Include,
			Exclude:       published.Exclude,
		},
		Features: published.Features,
	}

	for _, dep := range published.Dependencies {
		entry := publishedDependency{
			Version:  dep.Requirement,
			Package:  dep.Package,
			Registry: dep.Registry,
			Features: dep.Features,
			Optional: dep.Optional,
		}
		if entry.Version == "" {
			entry.Version = domain.NormalizeRequirement("")
		}
		if !dep.DefaultFeatures {
			disabled := false
			entry.DefaultFeatures = &disabled
		}

		var table *map[string]publishedDependency
		switch dep.Kind {
		case domain.DependencyBuild:
			table = &doc.BuildDependencies
		case domain.DependencyDev:
			table = &doc.DevDependencies
		default:
			table = &doc.Dependencies
		}
		if *table == nil {
			*table = make(map[string]publishedDependency)
		}
		(*table)[dep.Name] = entry
	}

	for _, bin := range published.Binaries {
		doc.Bin = append(doc.Bin, BinaryDTO{Name: bin.Name, Path: bin.Path})
	}
	if len(published.Build.Command) > 0 || len(published.Build.Env) > 0 {
		doc.Build = &BuildDTO{Command: published.Build.Command, Env: published.Build.Env}
	}

	var buf bytes.Buffer
	buf.WriteString(manifestHeader)
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(false)
	if err := enc.Encode(doc); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to serialize manifest"), "package", pkg.Name)
	}
	return buf.String(), nil
}
