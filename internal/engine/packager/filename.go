package packager

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/zerr"
)

// specialChars are rejected by at least one platform consumers unpack archives on.
var specialChars = []rune{'/', '\\', '<', '>', ':', '"', '|', '?', '*'}

var windowsReserved = []string{
	"con", "prn", "aux", "nul",
	"com1", "com2", "com3", "com4", "com5", "com6", "com7", "com8", "com9",
	"lpt1", "lpt2", "lpt3", "lpt4", "lpt5", "lpt6", "lpt7", "lpt8", "lpt9",
}

// CheckFilename validates the file name of an archive entry.
// Special characters are fatal. Reserved Windows device names only produce a warning.
func CheckFilename(rel string, logger ports.Logger) error {
	name := filepath.Base(rel)
	if name == "." || name == string(filepath.Separator) {
		return nil
	}
	if !utf8.ValidString(name) {
		return zerr.With(domain.ErrNonUnicodeFilename, "path", rel)
	}
	for _, c := range specialChars {
		if strings.ContainsRune(name, c) {
			return zerr.With(fmt.Errorf("%w `%c`: %s", domain.ErrInvalidFilename, c, rel), "path", rel)
		}
	}
	if isWindowsReservedPath(rel) {
		logger.Warn(fmt.Sprintf("file %s is a reserved Windows filename, it will not work on Windows platforms", rel))
	}
	return nil
}

func isWindowsReservedPath(rel string) bool {
	for _, component := range strings.Split(filepath.ToSlash(rel), "/") {
		stem, _, _ := strings.Cut(component, ".")
		if slices.Contains(windowsReserved, strings.ToLower(stem)) {
			return true
		}
	}
	return false
}
