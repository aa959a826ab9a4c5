// Package models defines the data shapes of the harvest feature: the
// normalized MetadataRecord, the persisted signature state, and the
// optional run-history row.
package models
