package domain

// IndexVersion is one published version of a package as listed by a registry index.
type IndexVersion struct {
	Version      string
	Yanked       bool
	Dependencies []Dependency
}
