// Package database manages the optional MySQL connection used to keep a
// history of harvest runs.
//
// The connection is strictly optional: when it is disabled or fails, the
// harvester runs normally and only the run-history endpoint is unavailable.
package database
