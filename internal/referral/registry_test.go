package referral

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// setupTestFiles creates temporary referral lists and returns their paths
func setupTestFiles(t *testing.T) (string, string, string) {
	t.Helper()

	tmpDir := t.TempDir()

	file1 := filepath.Join(tmpDir, "partners.txt")
	file2 := filepath.Join(tmpDir, "influencers.txt")
	file3 := filepath.Join(tmpDir, "staff.txt.gz")

	// File 1: plain codes with owners, a comment and a blank line
	if err := os.WriteFile(file1, []byte("# partner codes\nFRIEND01,Eve Adams\n\npartner2 , Bob\nABC\n"), 0644); err != nil {
		t.Fatalf("failed to create test file 1: %v", err)
	}

	// File 2: duplicate of FRIEND01 with a different owner, plus a code without owner
	if err := os.WriteFile(file2, []byte("FRIEND01,Someone Else\nSTYLE2025\n"), 0644); err != nil {
		t.Fatalf("failed to create test file 2: %v", err)
	}

	// File 3: gzipped staff list
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte("STAFF100,Store Team\n"))
	_ = gz.Close()
	if err := os.WriteFile(file3, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to create test file 3: %v", err)
	}

	return file1, file2, file3
}

func TestRegistry_LoadFromFiles(t *testing.T) {
	t.Run("successful load from multiple files", func(t *testing.T) {
		file1, file2, file3 := setupTestFiles(t)

		registry := NewRegistry()
		err := registry.LoadFromFiles(context.Background(), []string{file1, file2, file3})

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		stats := registry.GetStats()
		if stats["total_sources"] != 3 {
			t.Errorf("expected 3 sources loaded, got %v", stats["total_sources"])
		}
		// ABC is too short and skipped
		if stats["total_codes"] != 4 {
			t.Errorf("expected 4 codes loaded, got %v", stats["total_codes"])
		}
	})

	t.Run("empty file paths", func(t *testing.T) {
		registry := NewRegistry()
		err := registry.LoadFromFiles(context.Background(), []string{})

		if err == nil {
			t.Error("expected error for empty file paths, got nil")
		}
	})

	t.Run("non-existent file keeps previous codes", func(t *testing.T) {
		file1, _, _ := setupTestFiles(t)

		registry := NewRegistry()
		if err := registry.LoadFromFiles(context.Background(), []string{file1}); err != nil {
			t.Fatalf("failed to load files: %v", err)
		}

		err := registry.LoadFromFiles(context.Background(), []string{file1, "/non/existent/file.txt"})
		if err == nil {
			t.Error("expected error for non-existent file, got nil")
		}
		if !registry.IsValid("FRIEND01") {
			t.Error("expected previously loaded codes to survive a failed reload")
		}
	})
}

func TestRegistry_Lookup(t *testing.T) {
	file1, file2, file3 := setupTestFiles(t)

	registry := NewRegistry()
	if err := registry.LoadFromFiles(context.Background(), []string{file1, file2, file3}); err != nil {
		t.Fatalf("failed to load files: %v", err)
	}

	tests := []struct {
		name      string
		code      string
		wantOK    bool
		wantOwner string
	}{
		{name: "known code with owner", code: "FRIEND01", wantOK: true, wantOwner: "Eve Adams"},
		{name: "case insensitive and trimmed", code: "  partner2 ", wantOK: true, wantOwner: "Bob"},
		{name: "code without owner", code: "STYLE2025", wantOK: true, wantOwner: ""},
		{name: "gzipped list", code: "staff100", wantOK: true, wantOwner: "Store Team"},
		{name: "unknown code", code: "NOTACODE", wantOK: false},
		{name: "too short", code: "ABC", wantOK: false},
		{name: "too long", code: "THISCODEISWAYTOOLONGTOBEREAL", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := registry.Lookup(tt.code)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.code, ok, tt.wantOK)
			}
			if ok && ref.ReferredBy != tt.wantOwner {
				t.Errorf("Lookup(%q) owner = %q, want %q", tt.code, ref.ReferredBy, tt.wantOwner)
			}
		})
	}
}

func TestRegistry_EmptyRegistryRejectsEverything(t *testing.T) {
	registry := NewRegistry()

	if registry.IsValid("FRIEND01") {
		t.Error("expected empty registry to reject codes")
	}
	if stats := registry.GetStats(); stats["total_codes"] != 0 {
		t.Errorf("expected 0 codes, got %v", stats["total_codes"])
	}
}

func TestRegistry_LoadFromURLs(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte("WEBCODE1,Web Partner\n"))
	_ = gz.Close()
	payload := buf.Bytes()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.gz":
			http.NotFound(w, r)
		case "/codes.txt":
			_, _ = w.Write([]byte("# plain list\nSUMMER24,Alice\nWINTER25\n"))
		default:
			_, _ = w.Write(payload)
		}
	}))
	defer srv.Close()

	registry := NewRegistry()
	if err := registry.LoadFromURLs(context.Background(), []string{srv.URL + "/codes.gz"}); err != nil {
		t.Fatalf("LoadFromURLs() error = %v", err)
	}

	ref, ok := registry.Lookup("webcode1")
	if !ok || ref.ReferredBy != "Web Partner" {
		t.Errorf("Lookup() = %+v, %v", ref, ok)
	}

	if err := registry.LoadFromURLs(context.Background(), []string{srv.URL + "/codes.gz", srv.URL + "/codes.txt"}); err != nil {
		t.Fatalf("LoadFromURLs() with a plain list error = %v", err)
	}
	if ref, ok := registry.Lookup("summer24"); !ok || ref.ReferredBy != "Alice" {
		t.Errorf("Lookup(summer24) = %+v, %v", ref, ok)
	}
	if !registry.IsValid("WINTER25") || !registry.IsValid("WEBCODE1") {
		t.Error("expected codes from both lists to be valid")
	}

	if err := registry.LoadFromURLs(context.Background(), []string{srv.URL + "/missing.gz"}); err == nil {
		t.Error("expected error for missing list")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	file1, file2, file3 := setupTestFiles(t)

	registry := NewRegistry()
	if err := registry.LoadFromFiles(context.Background(), []string{file1, file2, file3}); err != nil {
		t.Fatalf("failed to load files: %v", err)
	}

	var wg sync.WaitGroup
	numGoroutines := 100

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			// interleave a reload with lookups
			if n == 50 {
				_ = registry.LoadFromFiles(context.Background(), []string{file1, file2, file3})
				return
			}

			codes := []string{"FRIEND01", "STYLE2025", "STAFF100", "NOTACODE"}
			code := codes[n%len(codes)]
			result := registry.IsValid(code)

			if code == "NOTACODE" && result {
				t.Errorf("expected %s to be invalid", code)
			}
			if code != "NOTACODE" && !result {
				t.Errorf("expected %s to be valid", code)
			}
		}(i)
	}

	wg.Wait()
}
