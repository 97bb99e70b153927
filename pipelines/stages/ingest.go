// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/mdhender/astrepr"
	"github.com/mdhender/astrepr/convert"
	"github.com/mdhender/astrepr/model"
)

// IngestService converts dumps and records their node statistics.
type IngestService struct {
	store     IngestStore
	converter *convert.Converter
	logger    *slog.Logger

	// serializes the duplicate check with the insert
	mu sync.Mutex
}

// IngestStore defines the store operations needed by IngestService.
type IngestStore interface {
	GetConversionBySHA256(ctx context.Context, sha256 string) (*model.Conversion, error)
	InsertConversionWithKinds(ctx context.Context, c *model.Conversion, counts []model.KindCount) (int64, error)
}

// NewIngestService creates a new IngestService.
func NewIngestService(store IngestStore, converter *convert.Converter, logger *slog.Logger) *IngestService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestService{
		store:     store,
		converter: converter,
		logger:    logger,
	}
}

// IngestResult contains the result of an ingest operation.
type IngestResult struct {
	Path         string
	ConversionID int64
	Duplicate    bool // true if the same content was already recorded
	Result       *convert.Result
	Err          error // set only by IngestBatch
}

// IngestFile converts one file and records it.
// Returns IngestResult with Duplicate=true if the content was recorded before.
func (s *IngestService) IngestFile(ctx context.Context, path string) (*IngestResult, error) {
	res, err := s.converter.ConvertFile(ctx, path, "")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.GetConversionBySHA256(ctx, res.SHA256)
	if err != nil {
		return nil, &ErrDatabase{Op: "check duplicate", Err: err}
	}
	if existing != nil {
		s.logger.DebugContext(ctx, "ingest: duplicate", "path", path, "recorded", existing.Name)
		return &IngestResult{
			Path:         path,
			ConversionID: existing.ID,
			Duplicate:    true,
			Result:       res,
		}, nil
	}

	// the row and its counts commit together or not at all
	id, err := s.store.InsertConversionWithKinds(ctx, &model.Conversion{
		Name:         path,
		SHA256:       res.SHA256,
		Nodes:        res.Nodes(),
		Placeholders: res.Placeholders(),
		Diagnostics:  len(res.Diagnostics),
	}, KindCounts(res))
	if err != nil {
		return nil, &ErrDatabase{Op: "insert conversion", Err: err}
	}

	return &IngestResult{
		Path:         path,
		ConversionID: id,
		Result:       res,
	}, nil
}

// KindCounts flattens the per-kind counts of a result, sorted by kind.
func KindCounts(res *convert.Result) []model.KindCount {
	counts := make([]model.KindCount, 0, len(res.Kinds))
	for kind, n := range res.Kinds {
		counts = append(counts, model.KindCount{
			Kind:         kind,
			Count:        n,
			Known:        astrepr.IsKnownKind(kind),
			Placeholders: res.Unknown[kind],
		})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Kind < counts[j].Kind
	})
	return counts
}
