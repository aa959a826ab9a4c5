package catalog

import (
	"strings"

	"metadata-harvester/core/utils"
	"metadata-harvester/feature/harvest/models"
)

// stacVersion is embedded in every emitted item.
const stacVersion = "1.0.0"

// Link is a STAC relation link.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// Geometry is a GeoJSON point geometry.
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// ItemProperties carries the record fields exposed on a STAC item.
// Temporal fields are pointers so that missing values serialize as null
// rather than empty strings.
type ItemProperties struct {
	ThingID           any     `json:"thing_id"`
	ThingName         string  `json:"thing_name"`
	Description       string  `json:"description"`
	SensorType        string  `json:"sensor_type"`
	ObservedProperty  string  `json:"observed_property"`
	UnitOfMeasurement string  `json:"unit_of_measurement"`
	ObservationType   string  `json:"observation_type"`
	SamplingFrequency string  `json:"sampling_frequency"`
	TimeRange         string  `json:"time_range"`
	DatastreamID      any     `json:"datastream_id"`
	StartDatetime     *string `json:"start_datetime"`
	EndDatetime       *string `json:"end_datetime"`
	Datetime          *string `json:"datetime"`
}

// Feature is one STAC item.
type Feature struct {
	Type        string         `json:"type"`
	StacVersion string         `json:"stac_version"`
	ID          string         `json:"id"`
	Collection  string         `json:"collection"`
	Geometry    *Geometry      `json:"geometry"`
	Bbox        []float64      `json:"bbox"`
	Properties  ItemProperties `json:"properties"`
	Links       []Link         `json:"links"`
	Assets      map[string]any `json:"assets"`
}

// ItemCollection is the top-level STAC document.
type ItemCollection struct {
	Type     string    `json:"type"`
	Links    []Link    `json:"links"`
	Features []Feature `json:"features"`
}

// BuildStacItemCollection projects the records into a STAC item collection.
// Records without a datastream id are excluded. Self/root links are built
// from the root href with any trailing slash stripped.
func BuildStacItemCollection(records []*models.MetadataRecord, collectionID, rootHref string) *ItemCollection {
	normalizedRoot := strings.TrimRight(rootHref, "/")
	features := make([]Feature, 0, len(records))

	for _, record := range records {
		if record == nil || record.DatastreamID == nil {
			continue
		}

		itemID := "datastream-" + utils.ToString(record.DatastreamID)

		var geometry *Geometry
		var bbox []float64
		if record.Location != nil {
			lon, lat := record.Location.Lon, record.Location.Lat
			geometry = &Geometry{Type: "Point", Coordinates: []float64{lon, lat}}
			bbox = []float64{lon, lat, lon, lat}
		}

		features = append(features, Feature{
			Type:        "Feature",
			StacVersion: stacVersion,
			ID:          itemID,
			Collection:  collectionID,
			Geometry:    geometry,
			Bbox:        bbox,
			Properties: ItemProperties{
				ThingID:           record.ThingID,
				ThingName:         record.ThingName,
				Description:       record.Description,
				SensorType:        record.SensorType,
				ObservedProperty:  record.ObservedProperty,
				UnitOfMeasurement: record.UnitOfMeasurement,
				ObservationType:   record.ObservationType,
				SamplingFrequency: record.SamplingFrequency,
				TimeRange:         record.TimeRange,
				DatastreamID:      record.DatastreamID,
				StartDatetime:     nullable(record.StartTime),
				EndDatetime:       nullable(record.EndTime),
				Datetime:          nullable(record.LastObservationTime),
			},
			Links: []Link{
				{Rel: "self", Href: normalizedRoot + "/items/" + itemID},
				{Rel: "root", Href: normalizedRoot},
			},
			Assets: map[string]any{},
		})
	}

	return &ItemCollection{
		Type: "FeatureCollection",
		Links: []Link{
			{Rel: "self", Href: normalizedRoot + "/items"},
			{Rel: "root", Href: normalizedRoot},
		},
		Features: features,
	}
}

// nullable maps empty strings to null-serializing nils.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
