package tables

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/ngmaloney/nz-tides/internal/models"
)

func openTestSource(t *testing.T) *SQLiteSource {
	t.Helper()
	src, err := OpenSQLiteSource(filepath.Join(t.TempDir(), "tables.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteSource() error = %v", err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

func TestSQLiteSource_ImportReplaces(t *testing.T) {
	ctx := context.Background()
	src := openTestSource(t)

	read := func() string {
		t.Helper()
		rc, err := src.Open(ctx, models.Auckland, 2012)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("reading table: %v", err)
		}
		return string(data)
	}

	if _, err := src.Import(ctx, fstest.MapFS{"auckland/2012.csv": {Data: []byte(aucklandJan1)}}, nil); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if got := read(); got != aucklandJan1 {
		t.Errorf("Open() content = %q, want %q", got, aucklandJan1)
	}

	// Importing again replaces the table
	if _, err := src.Import(ctx, fstest.MapFS{"auckland/2012.csv": {Data: []byte("replaced")}}, nil); err != nil {
		t.Fatalf("second Import() error = %v", err)
	}
	if got := read(); got != "replaced" {
		t.Errorf("Open() after replace = %q, want %q", got, "replaced")
	}
}

func TestSQLiteSource_OpenMissing(t *testing.T) {
	src := openTestSource(t)

	_, err := src.Open(context.Background(), models.Auckland, 2099)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Open() error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteSource_Import(t *testing.T) {
	ctx := context.Background()
	src := openTestSource(t)

	needs, err := src.NeedsImport(ctx)
	if err != nil || !needs {
		t.Fatalf("NeedsImport() on empty db = %v, %v; want true, nil", needs, err)
	}

	progress := make(chan string, 100)
	count, err := src.Import(ctx, testFS(), progress)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	close(progress)

	if count != 3 {
		t.Errorf("Import() count = %d, want 3", count)
	}

	var messages []string
	for msg := range progress {
		messages = append(messages, msg)
	}
	if len(messages) == 0 {
		t.Error("Import() sent no progress messages")
	}

	needs, err = src.NeedsImport(ctx)
	if err != nil || needs {
		t.Errorf("NeedsImport() after import = %v, %v; want false, nil", needs, err)
	}

	years, err := src.Years(ctx, models.Auckland)
	if err != nil {
		t.Fatalf("Years() error = %v", err)
	}
	if diff := cmp.Diff([]int{2012, 2013}, years); diff != "" {
		t.Errorf("Years() mismatch (-want +got):\n%s", diff)
	}

	rc, err := src.Open(ctx, models.MarsdenPoint, 2012)
	if err != nil {
		t.Fatalf("Open() imported table error = %v", err)
	}
	rc.Close()

	// Importing twice is idempotent
	if _, err := src.Import(ctx, testFS(), nil); err != nil {
		t.Fatalf("second Import() error = %v", err)
	}
	years, _ = src.Years(ctx, models.Auckland)
	if len(years) != 2 {
		t.Errorf("Years() after reimport = %v, want 2 entries", years)
	}
}
