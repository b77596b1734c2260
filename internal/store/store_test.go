package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/nivela/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nivela.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func testDataset(areas ...float64) model.Dataset {
	ds := model.Dataset{Categories: []string{"K0+000"}}
	for i, area := range areas {
		row := model.NormalizedRow{AreaLeft: area, AreaRight: area, DiffCenter: -0.5}
		row.Category = "K0+000"
		row.Abscissa = float64(i * 10)
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

func TestLoadDatasetEmpty(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.LoadDataset(context.Background()); !errors.Is(err, ErrNoDataset) {
		t.Fatalf("expected ErrNoDataset, got %v", err)
	}
}

func TestSaveAndLoadDataset(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	ds := testDataset(1.93, 2.28)

	rep, err := st.SaveDataset(ctx, "cartera.xlsx", ds)
	if err != nil {
		t.Fatalf("save dataset: %v", err)
	}
	if rep.Previous != nil {
		t.Fatalf("expected no previous load, got %+v", rep.Previous)
	}
	if rep.Current.LoadID == "" || rep.Current.RowCount != 2 {
		t.Fatalf("unexpected load info: %+v", rep.Current)
	}

	cached, err := st.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	if cached.LoadID != rep.Current.LoadID || cached.Source != "cartera.xlsx" {
		t.Fatalf("unexpected cached metadata: %+v", cached)
	}
	if len(cached.Dataset.Rows) != 2 || cached.Dataset.Rows[1] != ds.Rows[1] {
		t.Fatalf("unexpected cached rows: %+v", cached.Dataset.Rows)
	}
	if len(cached.Dataset.Categories) != 1 || cached.Dataset.Categories[0] != "K0+000" {
		t.Fatalf("unexpected categories: %v", cached.Dataset.Categories)
	}
}

func TestSaveDatasetReplacesPrevious(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first, err := st.SaveDataset(ctx, "a.xlsx", testDataset(1, 2))
	if err != nil {
		t.Fatalf("save first: %v", err)
	}
	second, err := st.SaveDataset(ctx, "b.xlsx", testDataset(1, 3, 4))
	if err != nil {
		t.Fatalf("save second: %v", err)
	}
	if second.Previous == nil || second.Previous.LoadID != first.Current.LoadID {
		t.Fatalf("expected previous load %s, got %+v", first.Current.LoadID, second.Previous)
	}
	if second.Changes.Total() == 0 {
		t.Fatalf("expected changes between loads")
	}
	if second.Changes.Added == 0 {
		t.Fatalf("expected an added row, got %+v", second.Changes)
	}

	info, err := st.Info(ctx)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.Source != "b.xlsx" || info.RowCount != 3 {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestSaveSameDatasetHasNoChanges(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	ds := testDataset(1, 2)
	if _, err := st.SaveDataset(ctx, "a.xlsx", ds); err != nil {
		t.Fatalf("save: %v", err)
	}
	rep, err := st.SaveDataset(ctx, "a.xlsx", ds)
	if err != nil {
		t.Fatalf("save again: %v", err)
	}
	if rep.Changes.Total() != 0 {
		t.Fatalf("expected no changes, got %+v", rep.Changes)
	}
}

func TestClear(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.SaveDataset(ctx, "a.xlsx", testDataset(1)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := st.Info(ctx); !errors.Is(err, ErrNoDataset) {
		t.Fatalf("expected ErrNoDataset after clear, got %v", err)
	}
}
