// Package loader turns a survey file into the active dataset and hands it
// to the session cache.
package loader

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/verte-zerg/nivela/internal/earthwork"
	"github.com/verte-zerg/nivela/internal/model"
	"github.com/verte-zerg/nivela/internal/sheet"
	"github.com/verte-zerg/nivela/internal/store"
)

// Cache receives every freshly built dataset.
type Cache interface {
	SaveDataset(ctx context.Context, source string, ds model.Dataset) (store.Replacement, error)
}

// Loader decodes survey files and builds datasets.
type Loader struct {
	cache  Cache
	logger *zap.Logger
	decode func(path string) ([]model.RawRow, error)
}

// New returns a Loader. cache may be nil to skip caching.
func New(cache Cache, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{cache: cache, logger: logger, decode: sheet.Open}
}

// Load decodes path and builds a new dataset. A cache failure is logged and
// does not fail the load.
func (l *Loader) Load(ctx context.Context, path string) (model.Dataset, error) {
	raw, err := l.decode(path)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	ds := earthwork.Build(raw)
	l.logger.Debug("dataset loaded",
		zap.String("source", path),
		zap.Int("rows", len(ds.Rows)),
		zap.Int("categories", len(ds.Categories)),
	)
	if l.cache == nil {
		return ds, nil
	}

	source, err := filepath.Abs(path)
	if err != nil {
		source = path
	}
	rep, err := l.cache.SaveDataset(ctx, source, ds)
	if err != nil {
		l.logger.Warn("failed to cache dataset", zap.Error(err))
		return ds, nil
	}
	fields := []zap.Field{zap.String("load_id", rep.Current.LoadID)}
	if rep.Previous != nil {
		fields = append(fields,
			zap.String("replaced", rep.Previous.LoadID),
			zap.Int("added", rep.Changes.Added),
			zap.Int("removed", rep.Changes.Removed),
			zap.Int("replaced_values", rep.Changes.Replaced),
		)
	}
	l.logger.Debug("dataset cached", fields...)
	return ds, nil
}
