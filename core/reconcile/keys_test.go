package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteKey(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"base without slash", "/var/www/uploads", "/var/www/uploads/2024/01/photo.jpg", "2024/01/photo.jpg"},
		{"base with slash", "/var/www/uploads/", "/var/www/uploads/2024/01/photo.jpg", "2024/01/photo.jpg"},
		{"flat file", "/srv/up", "/srv/up/logo.png", "logo.png"},
		{"outside base", "/srv/up", "/tmp/logo.png", "/tmp/logo.png"},
		{"sibling prefix", "/srv/up", "/srv/upload/logo.png", "/srv/upload/logo.png"},
		{"parent segment in base", "/srv/www/../www/uploads", "/srv/www/uploads/2024/01/photo.jpg", "2024/01/photo.jpg"},
		{"trailing dot in base", "/srv/www/uploads/.", "/srv/www/uploads/2024/01/photo.jpg", "2024/01/photo.jpg"},
		{"relative base", "./uploads", filepath.Join("./uploads", "2024", "01", "photo.jpg"), "2024/01/photo.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoteKey(tt.base, tt.path))
		})
	}
}

func TestRemoteKey_RelativeBaseAbsolutePath(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Skip("working directory unavailable")
	}
	path := filepath.Join(wd, "uploads", "2024", "01", "photo.jpg")
	assert.Equal(t, "2024/01/photo.jpg", RemoteKey("uploads", path))
}

func TestNew_NormalizesUploadDir(t *testing.T) {
	dir := t.TempDir()
	asset := photoAsset(t, dir, 1)
	r, _ := setupReconciler(t, testConfig(dir+string(filepath.Separator)+".", true), newFakeCatalog(asset))

	assert.Equal(t, dir, r.cfg.UploadDir)
	assert.Equal(t, "2024/01/photo1.jpg", r.files(asset, false)[0].key)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	asset := photoAsset(t, dir, 1)
	asset.Variants = append(asset.Variants, Variant{Name: "large", File: "photo1-1024x768.jpg"})
	r, _ := setupReconciler(t, testConfig(dir, true), newFakeCatalog(asset))

	all := r.files(asset, false)
	assert.Len(t, all, 3)
	assert.True(t, all[0].primary)
	assert.Equal(t, "2024/01/photo1.jpg", all[0].key)

	existing := r.files(asset, true)
	assert.Len(t, existing, 2)
	assert.Equal(t, "2024/01/photo1-150x150.jpg", existing[1].key)
}
