// Package sta talks to a SensorThings-API-compliant service and
// normalizes its entities into flat metadata records.
//
// The client fetches the Things collection with locations, datastreams,
// sensors, and observed properties expanded in a single paginated request
// chain, optionally authenticating through the istSOS login exchange.
// The normalizer projects each thing/datastream pair into exactly one
// MetadataRecord, treating every upstream field as optional.
package sta
