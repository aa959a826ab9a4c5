package sta

import (
	"strings"

	"metadata-harvester/core/utils"
	"metadata-harvester/feature/harvest/models"
)

// Thing is one upstream SensorThings entity with its expanded sub-objects.
// It stays a generic map: any field may be missing or carry an unexpected
// type, and every extraction below defaults instead of failing.
type Thing = map[string]any

// expandQuery pulls locations, datastreams, sensors and observed
// properties in a single request.
const expandQuery = "$expand=Locations,Datastreams($expand=Sensor,ObservedProperty)"

// Records flattens every thing/datastream pair into one normalized record
// each. Things without datastreams contribute nothing.
func Records(things []Thing) []*models.MetadataRecord {
	records := make([]*models.MetadataRecord, 0, len(things))
	for _, thing := range things {
		for _, raw := range utils.AsSlice(thing["Datastreams"]) {
			datastream := utils.AsMap(raw)
			if datastream == nil {
				continue
			}
			records = append(records, RecordFromDatastream(thing, datastream))
		}
	}
	return records
}

// RecordFromDatastream projects one thing/datastream pair into a record.
func RecordFromDatastream(thing Thing, datastream map[string]any) *models.MetadataRecord {
	sensor := utils.AsMap(datastream["Sensor"])
	observedProperty := utils.AsMap(datastream["ObservedProperty"])
	timeRange := extractTimeRange(datastream)
	startTime, endTime := splitTimeRange(timeRange)

	// The datastream's own description wins; the parent thing's is the fallback.
	description := getString(datastream, "description")
	if description == "" {
		description = getString(thing, "description")
	}

	return &models.MetadataRecord{
		ThingID:             thing["@iot.id"],
		ThingName:           getString(thing, "name"),
		DatastreamName:      getString(datastream, "name"),
		Description:         description,
		Location:            extractLocation(thing),
		SensorType:          getString(sensor, "name"),
		ObservedProperty:    getString(observedProperty, "name"),
		UnitOfMeasurement:   extractUnit(datastream),
		ObservationType:     getString(datastream, "observationType"),
		SamplingFrequency:   extractSamplingFrequency(datastream),
		TimeRange:           timeRange,
		StartTime:           startTime,
		EndTime:             endTime,
		LastObservationTime: endTime,
		DatastreamID:        datastream["@iot.id"],
	}
}

func getString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// extractTimeRange prefers phenomenonTime over resultTime; both must be
// non-empty strings to count.
func extractTimeRange(datastream map[string]any) string {
	if s, ok := datastream["phenomenonTime"].(string); ok && s != "" {
		return s
	}
	if s, ok := datastream["resultTime"].(string); ok && s != "" {
		return s
	}
	return ""
}

// splitTimeRange splits an ISO interval on the first '/' only. Values
// without a separator yield empty start and end.
func splitTimeRange(timeRange string) (string, string) {
	if !strings.Contains(timeRange, "/") {
		return "", ""
	}
	parts := strings.SplitN(timeRange, "/", 2)
	return parts[0], parts[1]
}

// extractLocation reads the thing's first location entry only. The entry
// must carry a geometry with a numeric [lon, lat] coordinate pair; any
// other shape yields no location.
func extractLocation(thing Thing) *models.Location {
	locations := utils.AsSlice(thing["Locations"])
	if len(locations) == 0 {
		return nil
	}

	first := utils.AsMap(locations[0])
	geometry := utils.AsMap(first["location"])
	coordinates := utils.AsSlice(geometry["coordinates"])
	if len(coordinates) < 2 {
		return nil
	}

	lon, okLon := utils.AsFloat(coordinates[0])
	lat, okLat := utils.AsFloat(coordinates[1])
	if !okLon || !okLat {
		return nil
	}

	return &models.Location{Lat: lat, Lon: lon}
}

// extractUnit prefers a non-empty symbol over the unit name.
func extractUnit(datastream map[string]any) string {
	unit := utils.AsMap(datastream["unitOfMeasurement"])
	if unit == nil {
		return ""
	}
	if symbol, ok := unit["symbol"].(string); ok && symbol != "" {
		return symbol
	}
	if name, ok := unit["name"].(string); ok {
		return name
	}
	return ""
}

// samplingFrequencyKeys is the probe order over the free-form property bag.
var samplingFrequencyKeys = []string{"sampling_frequency", "samplingFrequency", "frequency"}

func extractSamplingFrequency(datastream map[string]any) string {
	properties := utils.AsMap(datastream["properties"])
	if properties == nil {
		return ""
	}
	for _, key := range samplingFrequencyKeys {
		if value, ok := properties[key]; ok && value != nil {
			return utils.ToString(value)
		}
	}
	return ""
}
