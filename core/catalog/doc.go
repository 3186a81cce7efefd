// Package catalog is the Asset Catalog backed by the CMS database.
//
// Attachments are rows of the posts table with post_type "attachment". Their
// files and sizes live in postmeta:
//
//   - _wp_attached_file: primary file path relative to the upload directory.
//   - _wp_attachment_metadata: JSON with width, height and generated sizes.
//   - _cloudflare_r2_url: the remote URL once the attachment is offloaded.
//
// Table names carry a configurable prefix (default "wp_").
//
// # Reference Rewriting
//
// Content does not link to attachments by ID; it embeds their URLs. When an
// attachment moves between local and remote delivery, ReplaceURL rewrites
// the old URL to the new one across every post body and meta value in one
// transaction, matching whole URLs only.
package catalog
