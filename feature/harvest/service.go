package harvest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"metadata-harvester/core/metrics"
	"metadata-harvester/core/reconcile"
	"metadata-harvester/core/storage"
	"metadata-harvester/feature/catalog"
	"metadata-harvester/feature/harvest/models"
	"metadata-harvester/feature/harvest/sta"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoDatabase is returned when run history is requested without a
// configured database connection.
var ErrNoDatabase = errors.New("run history requires a database connection")

// Fetcher retrieves the expanded things collection from upstream.
type Fetcher interface {
	FetchThings(ctx context.Context) ([]sta.Thing, error)
}

// DatasetsResponse is the payload served for the records listing.
type DatasetsResponse struct {
	Count       int                      `json:"count"`
	Records     []*models.MetadataRecord `json:"records"`
	Incremental reconcile.Stats          `json:"incremental"`
}

// Service orchestrates harvest passes: fetch, normalize, reconcile,
// project, persist. It serves the persisted artifacts and refreshes them
// on demand when they go stale.
type Service struct {
	cfg     Config
	fetcher Fetcher
	store   *Store
	cache   *HarvestCache
	db      *gorm.DB
	mirror  storage.Client
	bucket  string
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewService creates the harvest service. db and mirror are optional and
// may be nil; metrics may be nil in tests.
func NewService(cfg Config, fetcher Fetcher, store *Store, db *gorm.DB, mirror storage.Client, bucket string, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		cfg:     cfg,
		fetcher: fetcher,
		store:   store,
		cache:   NewHarvestCache(time.Duration(cfg.IntervalSeconds) * time.Second),
		db:      db,
		mirror:  mirror,
		bucket:  bucket,
		metrics: m,
		logger:  logger,
	}
}

// Cache exposes the freshness cache, mainly for handlers and tests.
func (s *Service) Cache() *HarvestCache {
	return s.cache
}

// Refresh runs a harvest pass unless the cached artifacts are still
// fresh. The staleness check runs twice: once optimistically here, and
// once more inside the flight, so callers racing to trigger a refresh do
// not repeat the work. Concurrent callers block until the in-flight pass
// completes.
func (s *Service) Refresh(ctx context.Context, force bool) error {
	if !force && s.cache.IsFresh() {
		return nil
	}
	return s.cache.Do(func() (any, error) {
		if !force && s.cache.IsFresh() {
			return nil, nil
		}
		return nil, s.harvest(ctx, force)
	})
}

// harvest executes one full pass. On any failure the persisted state is
// left untouched and the previous snapshot remains the latest valid one.
func (s *Service) harvest(ctx context.Context, forced bool) error {
	started := time.Now()

	things, err := s.fetcher.FetchThings(ctx)
	if err != nil {
		return s.fail(fmt.Errorf("harvest failed: %w", err))
	}

	records := sta.Records(things)

	var stats reconcile.Stats
	if s.cfg.Incremental {
		previous := s.store.LoadRecords()
		previousSignatures := s.store.LoadSignatures()

		var signatures map[string]string
		records, signatures, stats = MergeRecords(records, previous, previousSignatures)

		if err := s.store.SaveSignatures(signatures); err != nil {
			return s.fail(err)
		}
	} else {
		// Incremental mode off: every record counts as freshly created
		// and no signature state is read or written.
		stats = reconcile.Stats{Created: len(records), Total: len(records)}
	}

	stac := catalog.BuildStacItemCollection(records, s.cfg.StacCollectionID, s.cfg.StacRootHref)
	dcat := catalog.BuildDcatCatalog(records)

	if err := s.store.SaveRecords(records); err != nil {
		return s.fail(err)
	}
	if err := s.store.SaveStac(stac); err != nil {
		return s.fail(err)
	}
	if err := s.store.SaveDcat(dcat); err != nil {
		return s.fail(err)
	}

	s.mirrorArtifacts(ctx)
	s.recordRun(started, stats, forced)

	duration := time.Since(started)
	if s.metrics != nil {
		s.metrics.ObservePass(stats.Created, stats.Updated, stats.Unchanged, stats.Total, duration)
	}
	s.cache.MarkRefreshed(stats)

	s.logger.Info("Harvest pass complete",
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
		zap.Int("unchanged", stats.Unchanged),
		zap.Int("total", stats.Total),
		zap.Duration("duration", duration),
	)
	return nil
}

func (s *Service) fail(err error) error {
	if s.metrics != nil {
		s.metrics.ObserveFailure()
	}
	return err
}

// mirrorArtifacts publishes the persisted files to object storage.
// Mirroring is best-effort: failures are logged, never fatal.
func (s *Service) mirrorArtifacts(ctx context.Context) {
	if s.mirror == nil {
		return
	}
	for _, artifact := range s.store.Artifacts() {
		data, err := os.ReadFile(artifact.Path)
		if err != nil {
			s.logger.Warn("Failed to read artifact for mirroring", zap.String("path", artifact.Path), zap.Error(err))
			continue
		}
		_, err = s.mirror.PutObject(ctx, s.bucket, artifact.Name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: "application/json",
		})
		if err != nil {
			s.logger.Warn("Failed to mirror artifact", zap.String("object", artifact.Name), zap.Error(err))
		}
	}
}

// recordRun inserts a run-history row when a database is configured.
func (s *Service) recordRun(started time.Time, stats reconcile.Stats, forced bool) {
	if s.db == nil {
		return
	}
	run := models.HarvestRun{
		StartedAt:  started,
		DurationMs: time.Since(started).Milliseconds(),
		Created:    stats.Created,
		Updated:    stats.Updated,
		Unchanged:  stats.Unchanged,
		Total:      stats.Total,
		Forced:     forced,
	}
	if err := s.db.Create(&run).Error; err != nil {
		s.logger.Warn("Failed to record harvest run", zap.Error(err))
	}
}

// Datasets ensures freshness and returns the persisted records with the
// statistics of the last pass.
func (s *Service) Datasets(ctx context.Context) (*DatasetsResponse, error) {
	if err := s.Refresh(ctx, false); err != nil {
		return nil, err
	}
	records := s.store.LoadRecords()
	if records == nil {
		records = []*models.MetadataRecord{}
	}
	return &DatasetsResponse{
		Count:       len(records),
		Records:     records,
		Incremental: s.cache.LastStats(),
	}, nil
}

// StacItems ensures freshness and returns the persisted STAC document.
func (s *Service) StacItems(ctx context.Context) (json.RawMessage, error) {
	if err := s.Refresh(ctx, false); err != nil {
		return nil, err
	}
	if raw, ok := s.store.LoadStacRaw(); ok {
		return raw, nil
	}
	return json.RawMessage(`{"type": "FeatureCollection", "features": []}`), nil
}

// DcatCatalog ensures freshness and returns the persisted DCAT document.
func (s *Service) DcatCatalog(ctx context.Context) (json.RawMessage, error) {
	if err := s.Refresh(ctx, false); err != nil {
		return nil, err
	}
	if raw, ok := s.store.LoadDcatRaw(); ok {
		return raw, nil
	}
	return json.RawMessage(`{"@type": "dcat:Catalog", "dcat:dataset": []}`), nil
}

// Runs lists the most recent harvest runs, newest first.
func (s *Service) Runs(limit int) ([]models.HarvestRun, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	if limit <= 0 {
		limit = 20
	}
	var runs []models.HarvestRun
	if err := s.db.Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list harvest runs: %w", err)
	}
	return runs, nil
}
