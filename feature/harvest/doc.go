// Package harvest orchestrates the metadata harvest cycle: fetch the
// SensorThings collection, normalize it into flat records, reconcile
// against the previous snapshot, project STAC and DCAT catalogs, and
// persist all artifacts.
//
// # Incremental harvesting
//
// In incremental mode the service loads the previous records snapshot and
// signature state, merges them with the fresh fetch through the reconcile
// engine, and rewrites the signature state. Unchanged records are
// re-emitted from the previous snapshot so their serialized form never
// drifts between runs. When incremental mode is disabled the engine is
// bypassed entirely and every record counts as created.
//
// # Freshness
//
// Harvests run on demand: read endpoints trigger a pass when the cached
// artifacts are older than the configured interval. A single pass runs at
// a time; concurrent callers block on the in-flight pass via singleflight
// and the staleness check is evaluated again inside the flight.
//
// # HTTP Endpoints
//
//   - GET  /datasets        : normalized records plus last-pass statistics.
//   - GET  /stac/items      : persisted STAC item collection.
//   - GET  /dcat/catalog    : persisted DCAT catalog.
//   - POST /harvest/refresh : trigger a pass (supports ?force=true).
//   - GET  /harvest/runs    : run history (requires the optional database).
package harvest
