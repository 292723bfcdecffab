// Package naming sanitizes client-supplied file names and resolves them
// to collision-free names within the repository's flat namespace.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/depot-sh/depot/internal/domain/entities"
)

// Sanitize reduces a client-supplied name to something safe to use as a
// flat storage key. Directory components are stripped rather than
// rejected so that browser uploads carrying full paths still work.
func Sanitize(name string) (string, error) {
	if name == "" {
		return "", entities.ErrEmptyName
	}
	if strings.ContainsRune(name, 0) {
		return "", entities.ErrInvalidName
	}

	// Normalize both separator styles, then keep only the last element.
	name = strings.ReplaceAll(name, "\\", "/")
	name = name[strings.LastIndex(name, "/")+1:]

	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.Contains(name, "..") {
		return "", entities.ErrInvalidName
	}
	// filepath.Clean on a bare element is a no-op unless the element was
	// something degenerate the checks above missed.
	if cleaned := filepath.Clean(name); cleaned != name {
		return "", entities.ErrInvalidName
	}
	return name, nil
}

// Resolve returns a name not present in existing, starting from the
// sanitized desired name and probing base_1.ext, base_2.ext, ... in
// order. Deterministic, bounded by len(existing)+1 probes. The caller
// owns reserving the returned name; this is a pure function.
func Resolve(desired string, existing map[string]struct{}) (string, error) {
	name, err := Sanitize(desired)
	if err != nil {
		return "", err
	}
	if _, taken := existing[name]; !taken {
		return name, nil
	}

	base, ext := splitExt(name)
	for i := 1; i <= len(existing)+1; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, taken := existing[candidate]; !taken {
			return candidate, nil
		}
	}
	// Unreachable: len(existing)+1 candidates cannot all collide with a
	// set of len(existing) names.
	return "", entities.ErrInvalidName
}

// splitExt splits at the last dot. A name with no dot, or a leading-dot
// name like ".bashrc", has no extension.
func splitExt(name string) (base, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name, ""
	}
	return name[:idx], name[idx:]
}
