// Package server holds configuration for the HTTP serving layer.
package server
