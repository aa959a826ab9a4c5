package catalog

import (
	"metadata-harvester/core/utils"
	"metadata-harvester/feature/harvest/models"
)

// Context is the fixed JSON-LD context emitted once per catalog.
type Context struct {
	Dcat   string `json:"dcat"`
	Dct    string `json:"dct"`
	Locn   string `json:"locn"`
	Schema string `json:"schema"`
}

// Temporal is the schema.org start/end block of a dataset.
type Temporal struct {
	StartDate string `json:"schema:startDate"`
	EndDate   string `json:"schema:endDate"`
}

// Spatial is the optional location block of a dataset.
type Spatial struct {
	Type     string   `json:"@type"`
	Geometry Geometry `json:"locn:geometry"`
}

// Dataset is one dcat:Dataset entry. Its id mirrors the STAC item id so
// the two catalogs cross-reference the same datastream.
type Dataset struct {
	ID          string   `json:"@id"`
	Type        string   `json:"@type"`
	Identifier  string   `json:"dct:identifier"`
	Title       string   `json:"dct:title"`
	Description string   `json:"dct:description"`
	Keyword     []string `json:"dcat:keyword"`
	Temporal    Temporal `json:"dct:temporal"`
	Spatial     *Spatial `json:"dct:spatial,omitempty"`
}

// Catalog is the top-level DCAT JSON-LD document.
type Catalog struct {
	Context Context   `json:"@context"`
	Type    string    `json:"@type"`
	Dataset []Dataset `json:"dcat:dataset"`
}

// BuildDcatCatalog projects the records into a DCAT catalog.
// Records without a datastream id are excluded. Keywords are always the
// 2-element observed-property/sensor-type pair, empty strings included.
func BuildDcatCatalog(records []*models.MetadataRecord) *Catalog {
	datasets := make([]Dataset, 0, len(records))

	for _, record := range records {
		if record == nil || record.DatastreamID == nil {
			continue
		}

		datasetID := "datastream-" + utils.ToString(record.DatastreamID)

		title := record.DatastreamName
		if title == "" {
			title = record.ThingName
		}

		dataset := Dataset{
			ID:          datasetID,
			Type:        "dcat:Dataset",
			Identifier:  datasetID,
			Title:       title,
			Description: record.Description,
			Keyword:     []string{record.ObservedProperty, record.SensorType},
			Temporal: Temporal{
				StartDate: record.StartTime,
				EndDate:   record.EndTime,
			},
		}

		if record.Location != nil {
			dataset.Spatial = &Spatial{
				Type: "dct:Location",
				Geometry: Geometry{
					Type:        "Point",
					Coordinates: []float64{record.Location.Lon, record.Location.Lat},
				},
			}
		}

		datasets = append(datasets, dataset)
	}

	return &Catalog{
		Context: Context{
			Dcat:   "http://www.w3.org/ns/dcat#",
			Dct:    "http://purl.org/dc/terms/",
			Locn:   "http://www.w3.org/ns/locn#",
			Schema: "https://schema.org/",
		},
		Type:    "dcat:Catalog",
		Dataset: datasets,
	}
}
