package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"listen-heatmap/models"
	"listen-heatmap/util"
)

// ErrNoSources is returned when no dataset is configured or no pattern matches a file.
var ErrNoSources = errors.New("no input datasets")

// DatasetFetcher downloads a remote JSON dataset.
type DatasetFetcher interface {
	GetJSON(ctx context.Context, endpoint string, response interface{}) error
}

// ListeningHistoryService loads and merges streaming history exports.
type ListeningHistoryService struct {
	fetcher DatasetFetcher
	logger  *zap.Logger
}

func NewListeningHistoryService(fetcher DatasetFetcher, logger *zap.Logger) *ListeningHistoryService {
	return &ListeningHistoryService{
		fetcher: fetcher,
		logger:  logger.Named("ListeningHistoryService"),
	}
}

// Load reads every source concurrently and returns the records in chronological
// order. Sources are file paths, glob patterns or http(s) URLs. The first
// failing source cancels the others.
func (s *ListeningHistoryService) Load(ctx context.Context, sources []string) ([]models.PlayRecord, error) {
	expanded, err := s.expandSources(sources)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Loading listening history", zap.Int("sources", len(expanded)))

	sets := make([][]models.PlayRecord, len(expanded))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range expanded {
		i, src := i, src
		g.Go(func() error {
			records, err := s.loadSource(ctx, src)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", src, err)
			}
			s.logger.Debug("Loaded dataset", zap.String("source", src), zap.Int("records", len(records)))
			sets[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := util.MergePlayRecords(sets...)
	s.logger.Info("Merged listening history", zap.Int("records", len(merged)))
	return merged, nil
}

func (s *ListeningHistoryService) loadSource(ctx context.Context, src string) ([]models.PlayRecord, error) {
	if isRemote(src) {
		var records []models.PlayRecord
		if err := s.fetcher.GetJSON(ctx, src, &records); err != nil {
			return nil, err
		}
		return records, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return util.ReadPlayRecordsFromJSON(src)
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// expandSources resolves glob patterns. Plain paths are kept even if missing so
// the read reports the error. A pattern matching no file is skipped, since an
// export may hold audio history without video history. It is an error only
// when nothing is left.
func (s *ListeningHistoryService) expandSources(sources []string) ([]string, error) {
	var out []string
	for _, src := range sources {
		if isRemote(src) || !strings.ContainsAny(src, "*?[") {
			out = append(out, src)
			continue
		}
		matches, err := filepath.Glob(src)
		if err != nil {
			return nil, fmt.Errorf("invalid input pattern %q: %w", src, err)
		}
		if len(matches) == 0 {
			s.logger.Debug("Input pattern matches no file", zap.String("pattern", src))
			continue
		}
		out = append(out, matches...)
	}
	if len(out) == 0 {
		return nil, ErrNoSources
	}
	return out, nil
}
