package reconcile

// Merge compares a freshly fetched snapshot against the previous one and
// produces the merged record set, the new signature map, and change stats.
//
// The previous snapshot is indexed by key with last-wins semantics on
// duplicates. Current records are processed in input order; records
// without an identity key contribute nothing to any output. A record is
// unchanged only when a previous signature exists for its key, matches the
// current signature, and the previous snapshot still contains the key — in
// that case the previous record is re-emitted so unchanged entries stay
// byte-stable across runs. If the signature matches but the previous
// record is missing (state files diverged), the current record wins and
// the entry counts as updated. Signatures are written for every keyed
// record, unchanged ones included.
//
// Records present in the previous snapshot but absent from the current
// fetch are dropped silently; the engine has no tombstone concept.
// Duplicate keys within current are each processed independently and
// double-counted.
func Merge[R any](adapter Adapter[R], current, previous []R, previousSignatures map[string]string) ([]R, map[string]string, Stats) {
	previousByKey := make(map[string]R, len(previous))
	for _, record := range previous {
		if key, ok := adapter.Key(record); ok {
			previousByKey[key] = record
		}
	}

	final := make([]R, 0, len(current))
	signatures := make(map[string]string, len(current))
	var stats Stats

	for _, record := range current {
		key, ok := adapter.Key(record)
		if !ok {
			continue
		}

		signature := adapter.Signature(record)
		oldSignature, seen := previousSignatures[key]

		if seen && oldSignature == signature {
			if prev, found := previousByKey[key]; found {
				final = append(final, prev)
				stats.Unchanged++
				signatures[key] = signature
				continue
			}
		}

		final = append(final, record)
		if seen {
			stats.Updated++
		} else {
			stats.Created++
		}
		signatures[key] = signature
	}

	stats.Total = len(final)
	return final, signatures, stats
}
