package models

// Location is a geographic point extracted from a thing's first location.
type Location struct {
	// Lat is the latitude in degrees.
	Lat float64 `json:"lat"`
	// Lon is the longitude in degrees.
	Lon float64 `json:"lon"`
}

// MetadataRecord is the normalized unit of harvest: one flat record per
// thing/datastream pair. Identity is carried by DatastreamID alone;
// records without it cannot be tracked across runs.
//
// ThingID and DatastreamID are opaque upstream-assigned values and keep
// whatever JSON type the upstream sends (number or string).
type MetadataRecord struct {
	ThingID             any       `json:"thing_id"`
	ThingName           string    `json:"thing_name"`
	DatastreamName      string    `json:"datastream_name"`
	Description         string    `json:"description"`
	Location            *Location `json:"location"`
	SensorType          string    `json:"sensor_type"`
	ObservedProperty    string    `json:"observed_property"`
	UnitOfMeasurement   string    `json:"unit_of_measurement"`
	ObservationType     string    `json:"observation_type"`
	SamplingFrequency   string    `json:"sampling_frequency"`
	TimeRange           string    `json:"time_range"`
	StartTime           string    `json:"start_time"`
	EndTime             string    `json:"end_time"`
	LastObservationTime string    `json:"last_observation_time"`
	DatastreamID        any       `json:"datastream_id"`
}

// SignatureState is the persisted shape of the signature map.
type SignatureState struct {
	// Signatures maps the string form of a datastream id to the canonical
	// content signature of its record at the last successful harvest.
	Signatures map[string]string `json:"signatures"`
}
