package reconcile

// Adapter provides record-type-specific identity and fingerprint logic.
// The engine itself never inspects record contents; it relies on the
// adapter for the stable identity key and the canonical content signature.
type Adapter[R any] interface {
	// Name identifies the adapter in logs.
	Name() string

	// Key extracts the stable identity key for a record.
	// ok is false when the record carries no identity; such records
	// cannot be tracked across runs and are dropped by the engine.
	Key(record R) (key string, ok bool)

	// Signature returns the canonical content fingerprint of a record.
	// Two records with identical field values must produce identical
	// signatures regardless of how they were assembled.
	Signature(record R) string
}

// Stats summarizes the classification of one merge.
// It is recomputed on every run and never persisted.
type Stats struct {
	// Created counts records whose key was not seen in the previous run.
	Created int `json:"created"`

	// Updated counts records whose key was seen but whose content changed.
	Updated int `json:"updated"`

	// Unchanged counts records re-emitted from the previous snapshot.
	Unchanged int `json:"unchanged"`

	// Total is the number of records in the merged output.
	Total int `json:"total"`
}
