package packager

import (
	"strings"

	"go.trai.ch/parcel/internal/core/domain"
)

const metadataDocsURL = "https://parcel.trai.ch/manifest#package-metadata"

type metadataField struct {
	label string
	value func(domain.Metadata) string
}

// metadataGroups lists the fields a registry page needs. A group is missing
// only when every field in it is empty.
var metadataGroups = [][]metadataField{
	{
		{"description", func(m domain.Metadata) string { return m.Description }},
	},
	{
		{"license", func(m domain.Metadata) string { return m.License }},
		{"license-file", func(m domain.Metadata) string { return m.LicenseFile }},
	},
	{
		{"documentation", func(m domain.Metadata) string { return m.Documentation }},
		{"homepage", func(m domain.Metadata) string { return m.Homepage }},
		{"repository", func(m domain.Metadata) string { return m.Repository }},
	},
}

// missingMetadata returns the labels of every field in a group that is entirely empty.
func missingMetadata(md domain.Metadata) []string {
	var missing []string
	for _, group := range metadataGroups {
		present := false
		for _, f := range group {
			if f.value(md) != "" {
				present = true
				break
			}
		}
		if present {
			continue
		}
		for _, f := range group {
			missing = append(missing, f.label)
		}
	}
	return missing
}

func (p *Packager) checkMetadata(pkg *domain.Package) {
	missing := missingMetadata(pkg.Metadata)
	if len(missing) == 0 {
		return
	}

	things := strings.Join(missing[:len(missing)-1], ", ")
	if things != "" {
		things += " or "
	}
	things += missing[len(missing)-1]

	p.logger.Warn("manifest has no " + things + ".\nSee " + metadataDocsURL + " for more info.")
}
