package layout

import "strings"

// IsSafeFilename reports whether name can be joined onto an atlas folder
// without escaping it. Empty names, absolute paths, parent references and
// any path separator are rejected. Spaces and unicode are fine.
func IsSafeFilename(name string) bool {
	if name == "" {
		return false
	}
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
