// Package metrics exposes Prometheus collectors for harvest activity.
//
// Collectors are registered on a per-instance registry rather than the
// default global one, and served over Fiber via the net/http adaptor.
package metrics
