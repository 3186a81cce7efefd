package reconcile

import (
	"path"
	"strings"
)

// Resolver maps assets to the URLs clients should load. Offloaded assets
// resolve to the bucket's public URL, everything else to the upload URL.
type Resolver struct {
	publicURL string
	uploadURL string
	uploadDir string
}

// NewResolver creates a Resolver. It needs only the URL settings, so
// delivery keeps working when storage credentials are absent.
func NewResolver(cfg Config) Resolver {
	return Resolver{
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		uploadURL: strings.TrimRight(cfg.UploadURL, "/"),
		uploadDir: cfg.UploadDir,
	}
}

// LocalURL returns the upload URL of a key.
func (r Resolver) LocalURL(key string) string {
	return r.uploadURL + "/" + key
}

// RemoteURL returns the public bucket URL of a key.
func (r Resolver) RemoteURL(key string) string {
	return r.publicURL + "/" + key
}

func (r Resolver) base(asset Asset) string {
	if asset.Offloaded() {
		return r.publicURL
	}
	return r.uploadURL
}

// AttachmentURL returns the URL of the original file.
func (r Resolver) AttachmentURL(asset Asset) string {
	if asset.Offloaded() {
		return asset.OffloadURL
	}
	return r.LocalURL(RemoteKey(r.uploadDir, asset.PrimaryPath))
}

// ImageSource is a resolved image rendition.
type ImageSource struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	// Intermediate is true for variants, false for the original.
	Intermediate bool `json:"intermediate"`
}

func (r Resolver) full(asset Asset) ImageSource {
	return ImageSource{
		URL:    r.base(asset) + "/" + RemoteKey(r.uploadDir, asset.PrimaryPath),
		Width:  asset.Width,
		Height: asset.Height,
	}
}

func (r Resolver) variant(asset Asset, v Variant) ImageSource {
	return ImageSource{
		URL:          r.base(asset) + "/" + RemoteKey(r.uploadDir, asset.VariantPath(v)),
		Width:        v.Width,
		Height:       v.Height,
		Intermediate: true,
	}
}

// ImageSource resolves a named size. "full", an empty name or an unknown
// name resolve to the original.
func (r Resolver) ImageSource(asset Asset, size string) ImageSource {
	if size != "" && size != "full" {
		for _, v := range asset.Variants {
			if v.Name == size {
				return r.variant(asset, v)
			}
		}
	}
	return r.full(asset)
}

// ImageSourceForDims resolves the variant with exactly the given dimensions,
// falling back to the original.
func (r Resolver) ImageSourceForDims(asset Asset, width, height int) ImageSource {
	for _, v := range asset.Variants {
		if v.Width == width && v.Height == height {
			return r.variant(asset, v)
		}
	}
	return r.full(asset)
}

// SrcsetSource is one candidate of an image srcset.
type SrcsetSource struct {
	URL        string `json:"url"`
	Descriptor string `json:"descriptor"`
	Value      int    `json:"value"`
}

// RewriteSrcset points every candidate of an offloaded asset at the bucket,
// keeping the file name and placing it in the primary file's key directory.
// Sources of local-only assets are returned unchanged.
func (r Resolver) RewriteSrcset(asset Asset, sources []SrcsetSource) []SrcsetSource {
	if !asset.Offloaded() {
		return sources
	}
	dir := path.Dir(RemoteKey(r.uploadDir, asset.PrimaryPath))
	out := make([]SrcsetSource, len(sources))
	for i, src := range sources {
		out[i] = src
		out[i].URL = r.publicURL + "/" + path.Join(dir, path.Base(src.URL))
	}
	return out
}
