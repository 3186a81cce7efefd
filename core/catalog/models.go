package catalog

import (
	"encoding/json"

	"media-offload/core/utils"
)

const (
	// AttachedFileKey holds the primary file path relative to the upload directory.
	AttachedFileKey = "_wp_attached_file"
	// AttachmentMetadataKey holds the JSON encoded AttachmentMetadata.
	AttachmentMetadataKey = "_wp_attachment_metadata"
	// OffloadURLKey holds the remote URL of an offloaded attachment.
	OffloadURLKey = "_cloudflare_r2_url"

	// AttachmentType is the post_type of media items.
	AttachmentType = "attachment"
)

// Post is a row of the posts table. Attachments and the content that
// embeds them share this table.
type Post struct {
	ID          uint64 `gorm:"column:ID;primaryKey;autoIncrement"`
	PostType    string `gorm:"column:post_type;size:20;index;default:post"`
	PostStatus  string `gorm:"column:post_status;size:20;default:publish"`
	PostTitle   string `gorm:"column:post_title;type:text"`
	PostContent string `gorm:"column:post_content;type:longtext"`
	GUID        string `gorm:"column:guid;size:255"`
}

// PostMeta is a row of the postmeta table.
type PostMeta struct {
	MetaID    uint64 `gorm:"column:meta_id;primaryKey;autoIncrement"`
	PostID    uint64 `gorm:"column:post_id;index"`
	MetaKey   string `gorm:"column:meta_key;size:255;index"`
	MetaValue string `gorm:"column:meta_value;type:longtext"`
}

// AttachmentMetadata describes the original image and its generated sizes.
type AttachmentMetadata struct {
	Width  Dimension               `json:"width"`
	Height Dimension               `json:"height"`
	File   string                  `json:"file"`
	Sizes  map[string]SizeMetadata `json:"sizes"`
}

// SizeMetadata describes one generated size. File is relative to the
// directory of the original.
type SizeMetadata struct {
	File     string    `json:"file"`
	Width    Dimension `json:"width"`
	Height   Dimension `json:"height"`
	MimeType string    `json:"mime-type"`
}

// Dimension is a pixel size. It decodes from JSON numbers and numeric
// strings alike, since plugins rewriting metadata do not agree on either.
type Dimension int

func (d *Dimension) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*d = Dimension(utils.ToInt(v))
	return nil
}
