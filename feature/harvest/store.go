package harvest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"metadata-harvester/feature/harvest/models"
)

// Artifact names one persisted harvest output.
type Artifact struct {
	// Name is the object name used when mirroring to storage.
	Name string
	// Path is the location on disk.
	Path string
}

// Store persists the harvest artifacts as standalone JSON documents.
// All writes are whole-file overwrites; there is no atomicity across the
// four files. Unreadable or invalid files load as empty defaults so a
// corrupted state never blocks the next harvest.
type Store struct {
	recordsPath string
	statePath   string
	stacPath    string
	dcatPath    string
}

// NewStore creates a store over the configured artifact paths.
func NewStore(cfg Config) *Store {
	return &Store{
		recordsPath: cfg.RecordsPath,
		statePath:   cfg.StatePath,
		stacPath:    cfg.StacPath,
		dcatPath:    cfg.DcatPath,
	}
}

// LoadRecords reads the previous records snapshot, or nil when the file
// is missing or malformed.
func (s *Store) LoadRecords() []*models.MetadataRecord {
	raw, err := os.ReadFile(s.recordsPath)
	if err != nil {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var records []*models.MetadataRecord
	if err := decoder.Decode(&records); err != nil {
		return nil
	}
	return records
}

// LoadSignatures reads the previous signature map, or an empty map when
// the state file is missing or malformed.
func (s *Store) LoadSignatures() map[string]string {
	raw, err := os.ReadFile(s.statePath)
	if err != nil {
		return map[string]string{}
	}

	var state models.SignatureState
	if err := json.Unmarshal(raw, &state); err != nil || state.Signatures == nil {
		return map[string]string{}
	}
	return state.Signatures
}

// SaveRecords overwrites the records snapshot.
func (s *Store) SaveRecords(records []*models.MetadataRecord) error {
	return writeJSONFile(s.recordsPath, records)
}

// SaveSignatures overwrites the signature state file.
func (s *Store) SaveSignatures(signatures map[string]string) error {
	return writeJSONFile(s.statePath, models.SignatureState{Signatures: signatures})
}

// SaveStac overwrites the STAC item collection.
func (s *Store) SaveStac(doc any) error {
	return writeJSONFile(s.stacPath, doc)
}

// SaveDcat overwrites the DCAT catalog.
func (s *Store) SaveDcat(doc any) error {
	return writeJSONFile(s.dcatPath, doc)
}

// LoadStacRaw returns the persisted STAC document verbatim.
func (s *Store) LoadStacRaw() (json.RawMessage, bool) {
	return loadRaw(s.stacPath)
}

// LoadDcatRaw returns the persisted DCAT document verbatim.
func (s *Store) LoadDcatRaw() (json.RawMessage, bool) {
	return loadRaw(s.dcatPath)
}

// Artifacts lists the persisted outputs for mirroring.
func (s *Store) Artifacts() []Artifact {
	paths := []string{s.recordsPath, s.statePath, s.stacPath, s.dcatPath}
	artifacts := make([]Artifact, 0, len(paths))
	for _, path := range paths {
		artifacts = append(artifacts, Artifact{Name: filepath.Base(path), Path: path})
	}
	return artifacts
}

func loadRaw(path string) (json.RawMessage, bool) {
	raw, err := os.ReadFile(path)
	if err != nil || !json.Valid(raw) {
		return nil, false
	}
	return raw, true
}

// writeJSONFile writes a pretty-printed, newline-terminated UTF-8 JSON
// document without HTML escaping.
func writeJSONFile(path string, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	// Encode appends the trailing newline.
	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
