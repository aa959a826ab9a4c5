// Package storage provides the object-storage client used to mirror
// harvest artifacts (records, STAC, DCAT, signature state) to a bucket.
//
// Mirroring is optional and disabled by default; the file store remains
// the source of truth. The Client interface wraps the Minio SDK so that
// tests can substitute a mock (see the mocks subpackage).
package storage
