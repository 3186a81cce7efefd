package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"

	"media-offload/core/reconcile"

	"gorm.io/gorm"
)

// ErrAssetNotFound is returned when no attachment has the requested ID.
var ErrAssetNotFound = errors.New("asset not found")

// batchSize bounds the number of IDs in one IN clause.
const batchSize = 500

var prefixPattern = regexp.MustCompile(`^[A-Za-z0-9_]*$`)

// Config holds configuration for the catalog tables.
type Config struct {
	// TablePrefix is prepended to the posts and postmeta table names.
	TablePrefix string `mapstructure:"table_prefix" default:"wp_"`
}

// Catalog reads attachments from the CMS tables and writes offload records
// and URL rewrites back. It implements reconcile.Catalog.
type Catalog struct {
	db        *gorm.DB
	uploadDir string
	posts     string
	postmeta  string
}

var _ reconcile.Catalog = (*Catalog)(nil)

// New creates a Catalog over db. Relative attached file paths are resolved
// against uploadDir.
func New(db *gorm.DB, cfg Config, uploadDir string) (*Catalog, error) {
	if db == nil {
		return nil, fmt.Errorf("catalog requires a database connection")
	}
	if !prefixPattern.MatchString(cfg.TablePrefix) {
		return nil, fmt.Errorf("invalid table prefix %q", cfg.TablePrefix)
	}
	return &Catalog{
		db:        db,
		uploadDir: uploadDir,
		posts:     cfg.TablePrefix + "posts",
		postmeta:  cfg.TablePrefix + "postmeta",
	}, nil
}

// Tables returns the posts and postmeta table names.
func (c *Catalog) Tables() (posts, postmeta string) {
	return c.posts, c.postmeta
}

// RequiredColumns lists the columns the catalog reads or writes, per table.
func (c *Catalog) RequiredColumns() map[string][]string {
	return map[string][]string{
		c.posts:    {"id", "post_type", "post_content"},
		c.postmeta: {"meta_id", "post_id", "meta_key", "meta_value"},
	}
}

// Migrate creates the catalog tables if they do not exist.
func (c *Catalog) Migrate(ctx context.Context) error {
	if err := c.db.WithContext(ctx).Table(c.posts).AutoMigrate(&Post{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", c.posts, err)
	}
	if err := c.db.WithContext(ctx).Table(c.postmeta).AutoMigrate(&PostMeta{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", c.postmeta, err)
	}
	return nil
}

// ListAssets returns the attachments matching filter ordered by ID.
func (c *Catalog) ListAssets(ctx context.Context, filter reconcile.Filter) ([]reconcile.Asset, error) {
	q := c.db.WithContext(ctx).Table(c.posts).Where("post_type = ?", AttachmentType)

	hasRecord := fmt.Sprintf("EXISTS (SELECT 1 FROM %s m WHERE m.post_id = %s.ID AND m.meta_key = ?)", c.postmeta, c.posts)
	switch filter {
	case reconcile.FilterOffloaded:
		q = q.Where(hasRecord, OffloadURLKey)
	case reconcile.FilterLocal:
		q = q.Where("NOT "+hasRecord, OffloadURLKey)
	}

	var ids []uint64
	if err := q.Order("ID").Pluck("ID", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	return c.loadAssets(ctx, ids)
}

// GetAsset returns a single attachment.
func (c *Catalog) GetAsset(ctx context.Context, id uint64) (*reconcile.Asset, error) {
	var count int64
	err := c.db.WithContext(ctx).Table(c.posts).
		Where("ID = ? AND post_type = ?", id, AttachmentType).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up attachment %d: %w", id, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("attachment %d: %w", id, ErrAssetNotFound)
	}

	assets, err := c.loadAssets(ctx, []uint64{id})
	if err != nil {
		return nil, err
	}
	return &assets[0], nil
}

// loadAssets builds assets for ids from their meta rows, preserving order.
func (c *Catalog) loadAssets(ctx context.Context, ids []uint64) ([]reconcile.Asset, error) {
	assets := make([]reconcile.Asset, len(ids))
	index := make(map[uint64]int, len(ids))
	for i, id := range ids {
		assets[i] = reconcile.Asset{ID: id, Variants: []reconcile.Variant{}}
		index[id] = i
	}

	keys := []string{AttachedFileKey, AttachmentMetadataKey, OffloadURLKey}
	for start := 0; start < len(ids); start += batchSize {
		end := min(start+batchSize, len(ids))

		var metas []PostMeta
		err := c.db.WithContext(ctx).Table(c.postmeta).
			Where("post_id IN ? AND meta_key IN ?", ids[start:end], keys).
			Order("meta_id").
			Find(&metas).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load attachment metadata: %w", err)
		}

		for _, m := range metas {
			a := &assets[index[m.PostID]]
			switch m.MetaKey {
			case AttachedFileKey:
				a.PrimaryPath = c.absPath(m.MetaValue)
			case AttachmentMetadataKey:
				applyMetadata(a, m.MetaValue)
			case OffloadURLKey:
				a.OffloadURL = m.MetaValue
			}
		}
	}

	return assets, nil
}

func (c *Catalog) absPath(rel string) string {
	if rel == "" {
		return ""
	}
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(c.uploadDir, filepath.FromSlash(rel))
}

// applyMetadata copies dimensions and sizes onto a. Metadata that does not
// decode leaves the asset without variants; the primary file still syncs.
func applyMetadata(a *reconcile.Asset, raw string) {
	var meta AttachmentMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return
	}
	a.Width, a.Height = int(meta.Width), int(meta.Height)

	names := make([]string, 0, len(meta.Sizes))
	for name := range meta.Sizes {
		names = append(names, name)
	}
	sort.Strings(names)

	a.Variants = make([]reconcile.Variant, 0, len(names))
	for _, name := range names {
		s := meta.Sizes[name]
		if s.File == "" {
			continue
		}
		a.Variants = append(a.Variants, reconcile.Variant{
			Name:     name,
			File:     s.File,
			Width:    int(s.Width),
			Height:   int(s.Height),
			MimeType: s.MimeType,
		})
	}
}

// SetOffloadURL creates or replaces the offload record of an attachment.
func (c *Catalog) SetOffloadURL(ctx context.Context, id uint64, url string) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing PostMeta
		err := tx.Table(c.postmeta).
			Where("post_id = ? AND meta_key = ?", id, OffloadURLKey).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Table(c.postmeta).Create(&PostMeta{PostID: id, MetaKey: OffloadURLKey, MetaValue: url}).Error
		}
		if err != nil {
			return fmt.Errorf("failed to read offload record of %d: %w", id, err)
		}
		return tx.Table(c.postmeta).
			Where("meta_id = ?", existing.MetaID).
			Update("meta_value", url).Error
	})
}

// DeleteOffloadURL removes the offload record of an attachment.
func (c *Catalog) DeleteOffloadURL(ctx context.Context, id uint64) error {
	err := c.db.WithContext(ctx).Table(c.postmeta).
		Where("post_id = ? AND meta_key = ?", id, OffloadURLKey).
		Delete(&PostMeta{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete offload record of %d: %w", id, err)
	}
	return nil
}

// ReplaceURL substitutes oldURL with newURL in every post body and every
// meta value except offload records, in one transaction. Only whole-URL
// occurrences are replaced (see ReplaceBounded). It returns the number of
// fields changed.
func (c *Catalog) ReplaceURL(ctx context.Context, oldURL, newURL string) (int64, error) {
	if oldURL == "" || oldURL == newURL {
		return 0, nil
	}
	pattern := "%" + escapeLike(oldURL) + "%"

	var changed int64
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var posts []Post
		err := tx.Table(c.posts).
			Select("ID", "post_content").
			Where("post_content LIKE ? ESCAPE '!'", pattern).
			Find(&posts).Error
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", c.posts, err)
		}
		for _, p := range posts {
			updated, n := ReplaceBounded(p.PostContent, oldURL, newURL)
			if n == 0 {
				continue
			}
			if err := tx.Table(c.posts).Where("ID = ?", p.ID).Update("post_content", updated).Error; err != nil {
				return fmt.Errorf("failed to update post %d: %w", p.ID, err)
			}
			changed++
		}

		var metas []PostMeta
		err = tx.Table(c.postmeta).
			Select("meta_id", "meta_value").
			Where("meta_key <> ? AND meta_value LIKE ? ESCAPE '!'", OffloadURLKey, pattern).
			Find(&metas).Error
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", c.postmeta, err)
		}
		for _, m := range metas {
			updated, n := ReplaceBounded(m.MetaValue, oldURL, newURL)
			if n == 0 {
				continue
			}
			if err := tx.Table(c.postmeta).Where("meta_id = ?", m.MetaID).Update("meta_value", updated).Error; err != nil {
				return fmt.Errorf("failed to update meta %d: %w", m.MetaID, err)
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}
