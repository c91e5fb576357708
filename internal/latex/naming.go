package latex

import (
	"path/filepath"
	"strings"
	"time"
)

const timestampLayout = "20060102_150405"

// FileName derives the base name shared by the .tex source and the compiled
// document. An explicit name wins, minus any directory and extension, unless
// nothing usable is left of it. Otherwise the header with spaces turned into underscores is suffixed with
// the generation time, e.g. "Mean_Problems_20250101_093000".
func FileName(header, explicit string, now time.Time) string {
	if explicit != "" {
		base := filepath.Base(explicit)
		base = strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
		if base != "" && base != "." && base != ".." && base != string(filepath.Separator) {
			return base
		}
	}
	name := strings.NewReplacer(" ", "_", "/", "_", `\`, "_").Replace(strings.TrimSpace(header))
	if name == "" {
		name = "worksheet"
	}
	return name + "_" + now.Format(timestampLayout)
}
