package document

import (
	"errors"
	"io/fs"
	"path/filepath"
)

// Resolution is the outcome of resolving symlinks for a path. A permission
// failure during resolution is a classification outcome for the confirmation
// gate, not an exceptional error, so it is modeled as data.
type Resolution struct {
	// RealPath is the fully resolved path, empty when PermissionDenied.
	RealPath string
	// PermissionDenied is set when the filesystem refused to resolve.
	PermissionDenied bool
}

// Realpath resolves symlinks in a path.
type Realpath interface {
	Resolve(path string) (Resolution, error)
}

// OSRealpath resolves symlinks against the OS filesystem.
type OSRealpath struct{}

// Resolve wraps filepath.EvalSymlinks. Permission errors become a
// PermissionDenied resolution; a missing file resolves to the path itself
// (a file about to be created has nothing to resolve).
func (OSRealpath) Resolve(path string) (Resolution, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return Resolution{PermissionDenied: true}, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return Resolution{RealPath: path}, nil
		}
		return Resolution{}, err
	}
	return Resolution{RealPath: resolved}, nil
}
