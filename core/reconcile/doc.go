// Package reconcile provides the incremental snapshot-merge engine.
//
// The engine compares a freshly fetched record set against the previously
// persisted one, keyed by a stable identity and compared by content
// signature, and produces a merged set plus change statistics without ever
// touching record internals itself.
//
// # Architecture
//
// The package consists of two parts:
//
//  1. Engine: the Merge function, which classifies every keyed record as
//     created, updated, or unchanged, re-emitting the previous record
//     object for unchanged entries so that downstream consumers see no
//     spurious change when upstream content has not changed.
//
//  2. Adapter: record-type-specific logic supplied by the caller — how to
//     extract the identity key and how to compute the canonical content
//     signature. This keeps the engine generic over record types.
//
// # Guarantees
//
//   - Output order follows the current snapshot's input order.
//   - Records without an identity key are dropped from every output.
//   - Running Merge twice with its own output as the previous state
//     classifies everything as unchanged (idempotence).
//   - created + updated + unchanged == total for unique keys.
package reconcile
