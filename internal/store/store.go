// Package store handles SQLite persistence of the last loaded dataset.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/wI2L/jsondiff"

	"github.com/verte-zerg/nivela/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNoDataset is returned when nothing has been cached yet.
var ErrNoDataset = errors.New("no cached dataset")

// Store wraps SQLite access for the session cache.
type Store struct {
	db *sql.DB
}

// LoadInfo describes one cached load without its rows.
type LoadInfo struct {
	LoadID   string
	Source   string
	LoadedAt time.Time
	RowCount int
}

// ChangeSummary counts JSON patch operations between two cached datasets.
type ChangeSummary struct {
	Added    int
	Removed  int
	Replaced int
}

// Total returns the number of changed values.
func (c ChangeSummary) Total() int {
	return c.Added + c.Removed + c.Replaced
}

// Replacement is the outcome of SaveDataset.
type Replacement struct {
	Current  LoadInfo
	Previous *LoadInfo
	Changes  ChangeSummary
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cached_dataset (
			slot INTEGER PRIMARY KEY CHECK (slot = 1),
			load_id TEXT NOT NULL,
			source TEXT NOT NULL,
			loaded_at TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			payload BLOB NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveDataset replaces the cached dataset. Only the last load is kept.
func (s *Store) SaveDataset(ctx context.Context, source string, ds model.Dataset) (rep Replacement, err error) {
	payload, err := json.Marshal(ds)
	if err != nil {
		return Replacement{}, fmt.Errorf("failed to encode dataset: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Replacement{}, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	prevInfo, prevPayload, err := selectCached(ctx, tx)
	switch {
	case errors.Is(err, ErrNoDataset):
	case err != nil:
		return Replacement{}, err
	default:
		rep.Previous = &prevInfo
		rep.Changes, err = diffPayloads(prevPayload, payload)
		if err != nil {
			return Replacement{}, err
		}
	}

	rep.Current = LoadInfo{
		LoadID:   uuid.NewString(),
		Source:   source,
		LoadedAt: time.Now(),
		RowCount: len(ds.Rows),
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO cached_dataset (slot, load_id, source, loaded_at, row_count, payload)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
			load_id = excluded.load_id,
			source = excluded.source,
			loaded_at = excluded.loaded_at,
			row_count = excluded.row_count,
			payload = excluded.payload`,
		rep.Current.LoadID,
		rep.Current.Source,
		rep.Current.LoadedAt.Format(time.RFC3339Nano),
		rep.Current.RowCount,
		payload,
	)
	if err != nil {
		return Replacement{}, err
	}
	if err = tx.Commit(); err != nil {
		return Replacement{}, err
	}
	return rep, nil
}

// LoadDataset reads back the cached dataset.
func (s *Store) LoadDataset(ctx context.Context) (model.CachedDataset, error) {
	info, payload, err := selectCached(ctx, s.db)
	if err != nil {
		return model.CachedDataset{}, err
	}
	var ds model.Dataset
	if err := json.Unmarshal(payload, &ds); err != nil {
		return model.CachedDataset{}, fmt.Errorf("failed to decode cached dataset: %w", err)
	}
	return model.CachedDataset{
		LoadID:   info.LoadID,
		Source:   info.Source,
		LoadedAt: info.LoadedAt,
		Dataset:  ds,
	}, nil
}

// Info returns metadata of the cached load.
func (s *Store) Info(ctx context.Context) (LoadInfo, error) {
	info, _, err := selectCached(ctx, s.db)
	return info, err
}

// Clear drops the cached dataset.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cached_dataset`)
	return err
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func selectCached(ctx context.Context, q queryer) (LoadInfo, []byte, error) {
	var info LoadInfo
	var loadedAt string
	var payload []byte
	err := q.QueryRowContext(ctx,
		`SELECT load_id, source, loaded_at, row_count, payload FROM cached_dataset WHERE slot = 1`,
	).Scan(&info.LoadID, &info.Source, &loadedAt, &info.RowCount, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return LoadInfo{}, nil, ErrNoDataset
	}
	if err != nil {
		return LoadInfo{}, nil, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, loadedAt)
	if err != nil {
		return LoadInfo{}, nil, err
	}
	info.LoadedAt = parsed
	return info, payload, nil
}

func diffPayloads(prev, next []byte) (ChangeSummary, error) {
	patch, err := jsondiff.CompareJSON(prev, next)
	if err != nil {
		return ChangeSummary{}, fmt.Errorf("failed to diff cached dataset: %w", err)
	}
	var summary ChangeSummary
	for _, op := range patch {
		switch op.Type {
		case jsondiff.OperationAdd:
			summary.Added++
		case jsondiff.OperationRemove:
			summary.Removed++
		case jsondiff.OperationReplace:
			summary.Replaced++
		}
	}
	return summary, nil
}
