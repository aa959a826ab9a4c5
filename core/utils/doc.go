// Package utils provides type conversion helpers for working with
// loosely-typed decoded JSON.
//
// Upstream SensorThings payloads are traversed as generic map[string]any
// structures where any field may be missing or carry an unexpected type.
// The helpers here make that traversal total: every accessor returns a
// usable zero value instead of failing.
package utils
