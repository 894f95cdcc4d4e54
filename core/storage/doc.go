// Package storage provides the object storage client for photo evidence.
//
// It wraps the Minio SDK behind a small Client interface so services can be
// tested against the mock in core/storage/mocks. The interface is limited to
// the operations the media feature needs: bucket bootstrap, upload, download,
// stat and delete.
package storage
