package reconcile

import (
	"path/filepath"
	"strings"
)

// RemoteKey derives the object key of a local file by removing the upload
// base directory and its trailing separator from the front of path. Both
// arguments are made absolute and cleaned first, so "./uploads",
// "/srv/www/../www/uploads" and "/srv/www/uploads/." name the same base.
// Offload, revert and repair all go through this function so a round trip
// resolves to the same object.
func RemoteKey(baseDir, path string) string {
	base := filepath.ToSlash(normalizePath(baseDir))
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return strings.TrimPrefix(filepath.ToSlash(normalizePath(path)), base)
}

func normalizePath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// file is one local path paired with its remote key.
type file struct {
	path    string
	key     string
	primary bool
}

// files returns the primary file followed by every variant. With
// existingOnly, variants missing on disk are left out; the primary is
// always included so its absence surfaces as a transfer failure.
func (r *Reconciler) files(asset Asset, existingOnly bool) []file {
	files := []file{{
		path:    asset.PrimaryPath,
		key:     RemoteKey(r.cfg.UploadDir, asset.PrimaryPath),
		primary: true,
	}}
	for _, v := range asset.Variants {
		path := asset.VariantPath(v)
		if existingOnly && !fileExists(path) {
			continue
		}
		files = append(files, file{path: path, key: RemoteKey(r.cfg.UploadDir, path)})
	}
	return files
}
