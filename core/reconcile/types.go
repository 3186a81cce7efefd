package reconcile

import (
	"context"
	"path/filepath"
)

// Asset is one media item: an original file plus its generated size variants.
type Asset struct {
	// ID is the catalog identifier of the attachment.
	ID uint64 `json:"id"`

	// PrimaryPath is the absolute local path of the original file.
	// Empty when the catalog holds no file for the attachment.
	PrimaryPath string `json:"primary_path"`

	// Width and Height of the original, when known.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Variants are the derived renditions (thumbnails, intermediate sizes),
	// ordered by name.
	Variants []Variant `json:"variants"`

	// OffloadURL is the remote URL recorded once the asset was pushed.
	// Its presence is the only signal that the asset is offloaded.
	OffloadURL string `json:"offload_url,omitempty"`
}

// Offloaded reports whether the asset carries an offload record.
func (a Asset) Offloaded() bool {
	return a.OffloadURL != ""
}

// VariantPath returns the absolute local path of a variant. Variants live
// next to the primary file.
func (a Asset) VariantPath(v Variant) string {
	return filepath.Join(filepath.Dir(a.PrimaryPath), v.File)
}

// Variant is a derived rendition of an asset stored beside the primary file.
type Variant struct {
	// Name is the size name (e.g. "thumbnail", "medium").
	Name string `json:"name"`
	// File is the file name relative to the primary file's directory.
	File     string `json:"file"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mime_type,omitempty"`
}

// Filter selects assets by offload state.
type Filter int

const (
	// FilterAll selects every asset.
	FilterAll Filter = iota
	// FilterLocal selects assets without an offload record.
	FilterLocal
	// FilterOffloaded selects assets with an offload record.
	FilterOffloaded
)

func (f Filter) String() string {
	switch f {
	case FilterLocal:
		return "local"
	case FilterOffloaded:
		return "offloaded"
	default:
		return "all"
	}
}

// Catalog is the store of assets and the content that references them.
type Catalog interface {
	// ListAssets returns the assets matching filter ordered by ID.
	ListAssets(ctx context.Context, filter Filter) ([]Asset, error)

	// GetAsset returns a single asset.
	GetAsset(ctx context.Context, id uint64) (*Asset, error)

	// SetOffloadURL creates or replaces the offload record of an asset.
	SetOffloadURL(ctx context.Context, id uint64, url string) error

	// DeleteOffloadURL removes the offload record of an asset.
	DeleteOffloadURL(ctx context.Context, id uint64) error

	// ReplaceURL substitutes oldURL with newURL across all content and
	// metadata fields and returns the number of fields changed.
	ReplaceURL(ctx context.Context, oldURL, newURL string) (int64, error)
}

// Outcome is the end state of a single-asset transition.
type Outcome string

const (
	OutcomeOffloaded Outcome = "offloaded"
	OutcomeReverted  Outcome = "reverted"
	OutcomePurged    Outcome = "purged"
	// OutcomePresent means repair found the remote copy and did nothing.
	OutcomePresent Outcome = "present"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Result describes what a transition did to one asset.
type Result struct {
	AssetID uint64  `json:"asset_id"`
	Outcome Outcome `json:"outcome"`

	// URL is the offload URL written (offload) or the local URL restored (revert).
	URL string `json:"url,omitempty"`

	// Transferred counts files pushed, fetched or deleted.
	Transferred int `json:"transferred"`

	// FailedKeys lists remote keys whose transfer or deletion failed.
	FailedKeys []string `json:"failed_keys,omitempty"`

	// Rewritten counts content and metadata fields whose references changed.
	Rewritten int64 `json:"rewritten"`

	// FailedRewrites lists URLs whose references could not be rewritten.
	FailedRewrites []string `json:"failed_rewrites,omitempty"`

	// Purged is set when local copies were removed after an offload.
	Purged bool `json:"purged,omitempty"`

	// Reason explains a skip or failure.
	Reason string `json:"reason,omitempty"`
}

// Operation names a bulk run.
type Operation string

const (
	OpMigrate    Operation = "migrate"
	OpRevert     Operation = "revert"
	OpReupload   Operation = "reupload"
	OpPurgeLocal Operation = "purge-local"
)

// BatchReport aggregates the results of a bulk run.
type BatchReport struct {
	Operation Operation `json:"operation"`
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	// FileFailures counts individual file transfers that failed, including
	// those inside assets that otherwise succeeded.
	FileFailures int `json:"file_failures"`
	// RewriteFailures counts reference rewrites that failed, leaving content
	// pointing at the previous URL.
	RewriteFailures int      `json:"rewrite_failures"`
	Results         []Result `json:"results"`
}

// Partial reports whether any asset, file or reference rewrite in the batch failed.
func (b *BatchReport) Partial() bool {
	return b.Failed > 0 || b.FileFailures > 0 || b.RewriteFailures > 0
}

func (b *BatchReport) add(res Result) {
	b.Results = append(b.Results, res)
	b.FileFailures += len(res.FailedKeys)
	b.RewriteFailures += len(res.FailedRewrites)
	switch res.Outcome {
	case OutcomeFailed:
		b.Failed++
	case OutcomeSkipped, OutcomePresent:
		b.Skipped++
	default:
		b.Succeeded++
	}
}
