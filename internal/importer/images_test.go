package importer

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"catalog-web/internal/storage"
)

// writeWorkbookArchive writes a minimal zip container with the given media
// entries. It is not a valid workbook, which is exactly the point: the
// drawing strategy must fail gracefully and the locator must fall back to
// sequential numbering.
func writeWorkbookArchive(t *testing.T, media map[string][]byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "upload.xlsx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, data := range media {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := entry.Write(data); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return path
}

func TestLocate_SequentialFallback(t *testing.T) {
	path := writeWorkbookArchive(t, map[string][]byte{
		"[Content_Types].xml":  []byte("<Types/>"),
		"xl/media/image10.png": []byte("png-ten"),
		"xl/media/image2.png":  []byte("png-two"),
		"xl/media/thumbs.db":   []byte("not an image"),
	})

	store := storage.NewMemoryStore()
	locator := NewImageLocator(store, testLogger())

	mappings, summary, err := locator.Locate(context.Background(), path, "JOB-1")
	if err != nil {
		t.Fatalf("Locate error: %v", err)
	}
	if len(mappings) != 2 {
		t.Fatalf("expected 2 mappings, got %d", len(mappings))
	}
	if summary.TotalImages != 2 || summary.Method != MethodSequential {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	// Sorted by numeric filename suffix: image2 before image10, rows 3 and 4.
	if mappings[0].FileName != "image2.png" || mappings[0].ExcelRow != 3 {
		t.Fatalf("unexpected first mapping: %+v", mappings[0])
	}
	if mappings[1].FileName != "image10.png" || mappings[1].ExcelRow != 4 {
		t.Fatalf("unexpected second mapping: %+v", mappings[1])
	}
	for _, mapping := range mappings {
		if mapping.MappingMethod != MethodSequential {
			t.Fatalf("expected sequential method, got %+v", mapping)
		}
		if mapping.ImageURL == "" {
			t.Fatalf("expected uploaded URL, got %+v", mapping)
		}
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 uploads, got %d", store.Len())
	}
}

func TestLocate_NoMediaFolder(t *testing.T) {
	path := writeWorkbookArchive(t, map[string][]byte{
		"[Content_Types].xml": []byte("<Types/>"),
	})

	locator := NewImageLocator(storage.NewMemoryStore(), testLogger())
	mappings, summary, err := locator.Locate(context.Background(), path, "JOB-1")
	if err != nil {
		t.Fatalf("Locate error: %v", err)
	}
	if len(mappings) != 0 {
		t.Fatalf("expected no mappings, got %+v", mappings)
	}
	if summary.Method != MethodNone {
		t.Fatalf("expected method none, got %q", summary.Method)
	}
}

func TestLocate_UnreadableFile(t *testing.T) {
	locator := NewImageLocator(storage.NewMemoryStore(), testLogger())
	if _, _, err := locator.Locate(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"), "JOB-1"); err == nil {
		t.Fatal("expected error for unreadable file")
	}
}

func TestMediaSuffixOrdering(t *testing.T) {
	if mediaSuffix("image12.png") != 12 {
		t.Fatalf("unexpected suffix: %d", mediaSuffix("image12.png"))
	}
	if mediaSuffix("picture.png") != 0 {
		t.Fatalf("expected 0 for missing suffix, got %d", mediaSuffix("picture.png"))
	}
}
