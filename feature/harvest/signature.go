package harvest

import (
	"bytes"
	"encoding/json"

	"metadata-harvester/core/reconcile"
	"metadata-harvester/core/utils"
	"metadata-harvester/feature/harvest/models"
)

// recordAdapter plugs MetadataRecord identity and fingerprinting into the
// reconcile engine.
type recordAdapter struct{}

var _ reconcile.Adapter[*models.MetadataRecord] = recordAdapter{}

func (recordAdapter) Name() string { return "metadata" }

// Key returns the string form of the datastream id, the only stable
// identity a record carries.
func (recordAdapter) Key(r *models.MetadataRecord) (string, bool) {
	if r == nil || r.DatastreamID == nil {
		return "", false
	}
	return utils.ToString(r.DatastreamID), true
}

func (recordAdapter) Signature(r *models.MetadataRecord) string {
	return recordSignature(r)
}

// MergeRecords reconciles freshly harvested records against the previous
// run, keeping unchanged records object-identical to their prior versions.
func MergeRecords(current, previous []*models.MetadataRecord, previousSignatures map[string]string) ([]*models.MetadataRecord, map[string]string, reconcile.Stats) {
	return reconcile.Merge[*models.MetadataRecord](recordAdapter{}, current, previous, previousSignatures)
}

// recordSignature computes the canonical content fingerprint of a record:
// its JSON form re-serialized with lexicographically sorted keys. The
// round-trip through a generic map removes any dependence on struct field
// order, and json.Number decoding keeps ids lossless.
func recordSignature(r *models.MetadataRecord) string {
	raw, err := json.Marshal(r)
	if err != nil {
		return ""
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var generic map[string]any
	if err := decoder.Decode(&generic); err != nil {
		return ""
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return ""
	}
	return string(canonical)
}
