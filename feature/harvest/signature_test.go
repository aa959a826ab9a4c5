package harvest

import (
	"bytes"
	"encoding/json"
	"testing"

	"metadata-harvester/feature/harvest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecord(t *testing.T, raw string) *models.MetadataRecord {
	t.Helper()
	decoder := json.NewDecoder(bytes.NewReader([]byte(raw)))
	decoder.UseNumber()
	var record models.MetadataRecord
	require.NoError(t, decoder.Decode(&record))
	return &record
}

func TestRecordAdapter_Key(t *testing.T) {
	adapter := recordAdapter{}

	t.Run("NilRecord", func(t *testing.T) {
		_, ok := adapter.Key(nil)
		assert.False(t, ok)
	})

	t.Run("MissingDatastreamID", func(t *testing.T) {
		_, ok := adapter.Key(&models.MetadataRecord{})
		assert.False(t, ok)
	})

	t.Run("NumericID", func(t *testing.T) {
		key, ok := adapter.Key(&models.MetadataRecord{DatastreamID: json.Number("42")})
		assert.True(t, ok)
		assert.Equal(t, "42", key)
	})

	t.Run("StringID", func(t *testing.T) {
		key, ok := adapter.Key(&models.MetadataRecord{DatastreamID: "ds-7"})
		assert.True(t, ok)
		assert.Equal(t, "ds-7", key)
	})
}

func TestRecordSignature_DeterministicAcrossFieldOrder(t *testing.T) {
	// The same content arriving with a different JSON field order must
	// fingerprint identically.
	a := decodeRecord(t, `{"datastream_id": 5, "thing_name": "Station A", "sensor_type": "DHT22"}`)
	b := decodeRecord(t, `{"sensor_type": "DHT22", "datastream_id": 5, "thing_name": "Station A"}`)

	assert.NotEmpty(t, recordSignature(a))
	assert.Equal(t, recordSignature(a), recordSignature(b))
}

func TestRecordSignature_DetectsContentChange(t *testing.T) {
	a := decodeRecord(t, `{"datastream_id": 5, "thing_name": "Station A"}`)
	b := decodeRecord(t, `{"datastream_id": 5, "thing_name": "Station B"}`)

	assert.NotEqual(t, recordSignature(a), recordSignature(b))
}

func TestRecordSignature_StableAcrossPersistenceRoundTrip(t *testing.T) {
	// A record written to disk and read back must keep its fingerprint,
	// otherwise every second pass would misreport everything as updated.
	original := decodeRecord(t, `{"datastream_id": 12, "thing_name": "Station A", "location": {"lat": 46.9, "lon": 7.5}}`)

	raw, err := json.Marshal(original)
	require.NoError(t, err)
	reloaded := decodeRecord(t, string(raw))

	assert.Equal(t, recordSignature(original), recordSignature(reloaded))
}

func TestMergeRecords_UnchangedKeepsPreviousObject(t *testing.T) {
	previous := decodeRecord(t, `{"datastream_id": 1, "thing_name": "Station A"}`)
	current := decodeRecord(t, `{"datastream_id": 1, "thing_name": "Station A"}`)

	previousSignatures := map[string]string{"1": recordSignature(previous)}

	merged, signatures, stats := MergeRecords(
		[]*models.MetadataRecord{current},
		[]*models.MetadataRecord{previous},
		previousSignatures,
	)

	require.Len(t, merged, 1)
	assert.Same(t, previous, merged[0])
	assert.Equal(t, previousSignatures, signatures)
	assert.Equal(t, 1, stats.Unchanged)
	assert.Equal(t, 0, stats.Created)
	assert.Equal(t, 0, stats.Updated)
}
