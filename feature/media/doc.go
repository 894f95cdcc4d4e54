// Package media stores and serves photo evidence for report line items.
//
// Uploads land in the configured object storage bucket under a generated
// key; the key is returned to the caller as an opaque reference (photo_ref)
// that line items can carry. The package never interprets references
// beyond using them as object keys.
package media
