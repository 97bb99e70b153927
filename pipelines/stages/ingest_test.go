// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/mdhender/astrepr/convert"
	"github.com/mdhender/astrepr/model"
	"github.com/mdhender/astrepr/pipelines/stages"
	store "github.com/mdhender/astrepr/stores/sqlite"
	"github.com/spf13/afero"
)

// mockStore implements stages.IngestStore for testing.
type mockStore struct {
	sync.Mutex
	conversions map[int64]*model.Conversion
	sha256Index map[string]*model.Conversion
	kinds       map[int64][]model.KindCount
	failInsert  bool
	failKinds   int // number of upcoming inserts that fail on the kind counts

	nextID int64
}

func newMockStore() *mockStore {
	return &mockStore{
		conversions: make(map[int64]*model.Conversion),
		sha256Index: make(map[string]*model.Conversion),
		kinds:       make(map[int64][]model.KindCount),
		nextID:      1,
	}
}

func (m *mockStore) GetConversionBySHA256(_ context.Context, sha256 string) (*model.Conversion, error) {
	m.Lock()
	defer m.Unlock()
	return m.sha256Index[sha256], nil
}

// InsertConversionWithKinds stores nothing when it fails.
func (m *mockStore) InsertConversionWithKinds(_ context.Context, c *model.Conversion, counts []model.KindCount) (int64, error) {
	m.Lock()
	defer m.Unlock()
	if m.failInsert {
		return 0, fmt.Errorf("disk full")
	}
	if m.failKinds > 0 {
		m.failKinds--
		return 0, fmt.Errorf("insert kind count %q: disk full", "File")
	}
	if _, ok := m.sha256Index[c.SHA256]; ok {
		return 0, fmt.Errorf("UNIQUE constraint failed: conversions.sha256")
	}
	id := m.nextID
	m.nextID++
	c.ID = id
	m.conversions[id] = c
	m.sha256Index[c.SHA256] = c
	m.kinds[id] = counts
	return id, nil
}

func dump(pkg string) string {
	return fmt.Sprintf("File: %s.cj {\n  PackageSpec: %s {\n  }\n  SpawnExpr: {\n  }\n}\n", pkg, pkg)
}

func newService(t *testing.T, st stages.IngestStore, files map[string]string) *stages.IngestService {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, data := range files {
		if err := afero.WriteFile(fs, path, []byte(data), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	c, err := convert.New(convert.WithFS(fs))
	if err != nil {
		t.Fatalf("convert: new: %v", err)
	}
	return stages.NewIngestService(st, c, nil)
}

func TestIngestService_IngestFile(t *testing.T) {
	ctx := context.Background()
	st := newMockStore()
	svc := newService(t, st, map[string]string{"a.txt": dump("a")})

	result, err := svc.IngestFile(ctx, "a.txt")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Duplicate {
		t.Errorf("expected Duplicate=false for new file")
	}
	if result.ConversionID != 1 {
		t.Errorf("expected ConversionID=1, got %d", result.ConversionID)
	}

	c := st.conversions[1]
	if c == nil {
		t.Fatalf("conversion not stored")
	}
	if c.Name != "a.txt" || c.Nodes != 3 || c.Placeholders != 1 {
		t.Errorf("conversion: want a.txt 3 nodes 1 placeholder, got %+v", c)
	}

	counts := st.kinds[1]
	want := []model.KindCount{
		{Kind: "File", Count: 1, Known: true},
		{Kind: "PackageSpec", Count: 1, Known: true},
		{Kind: "SpawnExpr", Count: 1, Placeholders: 1},
	}
	if len(counts) != len(want) {
		t.Fatalf("kind counts: want %d, got %d", len(want), len(counts))
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("kind count %d: want %+v, got %+v", i, want[i], counts[i])
		}
	}
}

func TestIngestService_IngestFile_Duplicate(t *testing.T) {
	ctx := context.Background()
	st := newMockStore()
	svc := newService(t, st, map[string]string{"a.txt": dump("a"), "copy-of-a.txt": dump("a")})

	if _, err := svc.IngestFile(ctx, "a.txt"); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	result, err := svc.IngestFile(ctx, "copy-of-a.txt")
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if !result.Duplicate {
		t.Errorf("expected Duplicate=true for same content")
	}
	if result.ConversionID != 1 {
		t.Errorf("expected existing ConversionID=1, got %d", result.ConversionID)
	}
	if len(st.conversions) != 1 {
		t.Errorf("expected 1 stored conversion, got %d", len(st.conversions))
	}
}

func TestIngestService_IngestFile_Errors(t *testing.T) {
	ctx := context.Background()
	st := newMockStore()
	svc := newService(t, st, map[string]string{"bad.txt": "Block {\n}\n", "a.txt": dump("a")})

	_, err := svc.IngestFile(ctx, "missing.txt")
	if got := stages.ErrorCode(err); got != convert.ErrCodeReadFile {
		t.Errorf("missing: want %s, got %s (%v)", convert.ErrCodeReadFile, got, err)
	}

	_, err = svc.IngestFile(ctx, "bad.txt")
	if got := stages.ErrorCode(err); got != convert.ErrCodeFormat {
		t.Errorf("bad: want %s, got %s (%v)", convert.ErrCodeFormat, got, err)
	}

	st.failInsert = true
	_, err = svc.IngestFile(ctx, "a.txt")
	var dbErr *stages.ErrDatabase
	if !errors.As(err, &dbErr) {
		t.Fatalf("insert: want *ErrDatabase, got %v", err)
	}
	if got := stages.ErrorCode(err); got != stages.ErrCodeDatabase {
		t.Errorf("insert: want %s, got %s", stages.ErrCodeDatabase, got)
	}
}

func TestIngestService_IngestFile_RetryAfterKindCountFailure(t *testing.T) {
	ctx := context.Background()
	st := newMockStore()
	st.failKinds = 1
	svc := newService(t, st, map[string]string{"a.txt": dump("a")})

	_, err := svc.IngestFile(ctx, "a.txt")
	if got := stages.ErrorCode(err); got != stages.ErrCodeDatabase {
		t.Fatalf("first: want %s, got %s (%v)", stages.ErrCodeDatabase, got, err)
	}
	if len(st.conversions) != 0 {
		t.Fatalf("first: want no conversion left behind, got %d", len(st.conversions))
	}

	r, err := svc.IngestFile(ctx, "a.txt")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if r.Duplicate {
		t.Errorf("retry: want a fresh insert, got duplicate of %d", r.ConversionID)
	}
	if len(st.kinds[r.ConversionID]) == 0 {
		t.Errorf("retry: want kind counts recorded, got none")
	}
}

func TestIngestService_IngestBatch(t *testing.T) {
	ctx := context.Background()
	files := map[string]string{"bad.txt": "not a dump\n"}
	var paths []string
	for i := 0; i < 20; i++ {
		// every fourth file repeats the content of the one before it
		pkg := i
		if i%4 == 3 {
			pkg = i - 1
		}
		path := fmt.Sprintf("dump-%02d.txt", i)
		files[path] = dump(fmt.Sprintf("p%02d", pkg))
		paths = append(paths, path)
	}
	paths = append(paths, "bad.txt")

	sqlStore, err := store.NewSQLiteStore(ctx, "")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer sqlStore.Close()

	svc := newService(t, sqlStore, files)
	results := svc.IngestBatch(ctx, paths, 8)
	if len(results) != len(paths) {
		t.Fatalf("results: want %d, got %d", len(paths), len(results))
	}

	recorded, duplicates, failed := 0, 0, 0
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("result %d: want path %q, got %q", i, paths[i], r.Path)
		}
		switch {
		case r.Err != nil:
			failed++
		case r.Duplicate:
			duplicates++
		default:
			recorded++
		}
	}
	if recorded != 15 || duplicates != 5 || failed != 1 {
		t.Errorf("want 15 recorded, 5 duplicates, 1 failed; got %d, %d, %d", recorded, duplicates, failed)
	}

	stats, err := sqlStore.TableStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats["conversions"] != 15 {
		t.Errorf("conversions: want 15, got %d", stats["conversions"])
	}
}

func TestIngestService_IngestBatch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newService(t, newMockStore(), map[string]string{"a.txt": dump("a")})
	results := svc.IngestBatch(ctx, []string{"a.txt"}, 0)
	if len(results) != 1 || !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("want context.Canceled, got %+v", results)
	}
}
