// Package catalog projects normalized metadata records into standard
// catalog documents: a STAC item collection and a DCAT JSON-LD catalog.
//
// Both projectors are pure and stateless; deterministic field order is
// guaranteed by typed document structs. Field mappings are part of the
// external contract and must not drift: downstream consumers diff these
// documents byte-for-byte.
package catalog
